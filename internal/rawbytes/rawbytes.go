// Package rawbytes converts the heterogeneous buffer forms an engine can
// hand back into one canonical byte slice.
package rawbytes

import "io"

// ArrayLike is the minimal indexable form some engine bindings return
// instead of a plain byte slice.
type ArrayLike interface {
	Len() int
	At(i int) byte
}

// Normalize copies raw into a freshly allocated byte slice. The result never
// aliases engine-managed memory, which may be reused or invalidated after
// the call returns. Unrecognized forms yield an empty, non-nil slice.
func Normalize(raw any) []byte {
	switch v := raw.(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out
	case string:
		return []byte(v)
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil || data == nil {
			return []byte{}
		}
		return data
	case ArrayLike:
		out := make([]byte, v.Len())
		for i := range out {
			out[i] = v.At(i)
		}
		return out
	default:
		return []byte{}
	}
}
