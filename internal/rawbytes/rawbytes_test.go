package rawbytes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type indexable []byte

func (s indexable) Len() int      { return len(s) }
func (s indexable) At(i int) byte { return s[i] }

func TestNormalizeByteSlice(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	out := Normalize(src)

	assert.Equal(t, src, out)

	// The result must be an independent copy, not an alias.
	src[0] = 99
	assert.Equal(t, byte(1), out[0])
}

func TestNormalizeString(t *testing.T) {
	out := Normalize("frame data")
	assert.Equal(t, []byte("frame data"), out)
}

func TestNormalizeReader(t *testing.T) {
	out := Normalize(bytes.NewReader([]byte{9, 8, 7}))
	assert.Equal(t, []byte{9, 8, 7}, out)
}

func TestNormalizeArrayLike(t *testing.T) {
	out := Normalize(indexable{5, 6, 7, 8})
	assert.Equal(t, []byte{5, 6, 7, 8}, out)
}

func TestNormalizeUnrecognizedForm(t *testing.T) {
	out := Normalize(42)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestNormalizeNil(t *testing.T) {
	out := Normalize(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
