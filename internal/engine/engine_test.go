package engine

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New("ffmpeg", "", afero.NewMemMapFs(), log)
}

func TestStagedFileRoundTrip(t *testing.T) {
	eng := newTestEngine()

	require.NoError(t, eng.WriteFile("in-test.mp4", []byte{1, 2, 3}))

	raw, err := eng.ReadFile("in-test.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	require.NoError(t, eng.DeleteFile("in-test.mp4"))

	_, err = eng.ReadFile("in-test.mp4")
	assert.Error(t, err)
}

func TestDeleteMissingStagedFile(t *testing.T) {
	eng := newTestEngine()

	err := eng.DeleteFile("never-written.mp4")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLogSubscriptionDetach(t *testing.T) {
	eng := newTestEngine()

	var lines []string
	cancel := eng.SubscribeLog(func(line string) { lines = append(lines, line) })

	eng.emitLog("first")
	cancel()
	eng.emitLog("second")

	assert.Equal(t, []string{"first"}, lines)
}

func TestProgressSubscriptionDetach(t *testing.T) {
	eng := newTestEngine()

	var ticks []float64
	cancel := eng.SubscribeProgress(func(f float64) { ticks = append(ticks, f) })

	eng.emitProgress(0.25)
	cancel()
	eng.emitProgress(0.75)

	assert.Equal(t, []float64{0.25}, ticks)
}

func TestScanDiagnosticsEmitsProgress(t *testing.T) {
	eng := newTestEngine()

	var lines []string
	var fractions []float64
	defer eng.SubscribeLog(func(line string) { lines = append(lines, line) })()
	defer eng.SubscribeProgress(func(f float64) { fractions = append(fractions, f) })()

	stderr := strings.Join([]string{
		"Input #0, mov,mp4, from 'in.mp4':",
		"  Duration: 00:00:10.00, start: 0.000000, bitrate: 1205 kb/s",
		"frame=  120 fps=0.0 q=2.0 size=     256kB time=00:00:05.00 bitrate= 419.4kbits/s",
		"frame=  240 fps=0.0 q=2.0 size=     512kB time=00:00:12.00 bitrate= 349.5kbits/s",
	}, "\n")

	eng.scanDiagnostics(strings.NewReader(stderr))

	assert.Len(t, lines, 4)
	require.Len(t, fractions, 2)
	assert.InDelta(t, 0.5, fractions[0], 1e-9)
	// Positions past the announced duration are clamped.
	assert.InDelta(t, 1.0, fractions[1], 1e-9)
}

func TestScanDiagnosticsWithoutDurationStaysSilent(t *testing.T) {
	eng := newTestEngine()

	var fractions []float64
	defer eng.SubscribeProgress(func(f float64) { fractions = append(fractions, f) })()

	eng.scanDiagnostics(strings.NewReader("frame= 10 time=00:00:01.00\n"))

	assert.Empty(t, fractions)
}

func TestScanDiagnosticsReturnsTail(t *testing.T) {
	eng := newTestEngine()

	tail := eng.scanDiagnostics(strings.NewReader("one\ntwo\nthree\n"))
	assert.Equal(t, "one | two | three", tail)
}

func TestDefaultEncodeThreads(t *testing.T) {
	n := defaultEncodeThreads()

	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 8)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde... (truncated)", truncate("abcdefgh", 5))
}
