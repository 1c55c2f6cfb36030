package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mediakit/internal/progress"
	"mediakit/internal/rawbytes"
)

// run is the write-input, execute, read-output, cleanup sequence shared by
// every transcoding operation. Staged files are deleted on every path before
// run returns, success or failure.
func (t *Toolkit) run(ctx context.Context, op string, input []byte, inExt, outExt, mime string,
	buildArgs func(eng Engine, in, out string) []string, onProgress ProgressFunc) (*Result, error) {

	eng, err := t.acquire(ctx)
	if err != nil {
		return nil, err
	}

	in := stagedName("in", inExt)
	out := stagedName("out", outExt)

	if err := eng.WriteFile(in, input); err != nil {
		return nil, fmt.Errorf("%s: failed to stage input: %w", op, err)
	}
	defer t.discard(eng, op, in, out)

	if onProgress != nil {
		relay := progress.Attach(eng, onProgress)
		defer relay.Detach()
	}

	if err := eng.Exec(ctx, buildArgs(eng, in, out)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := eng.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read output: %w", op, err)
	}

	data := rawbytes.Normalize(raw)
	if len(data) == 0 {
		t.log.WithField("operation", op).Warn("engine returned an empty or unrecognized output form")
	}
	return &Result{Data: data, MIME: mime}, nil
}

// discard removes staged files, tolerating ones that were never created
// (an exec failure leaves no output behind).
func (t *Toolkit) discard(eng Engine, op string, names ...string) {
	for _, name := range names {
		if err := eng.DeleteFile(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.log.WithError(err).WithFields(logrus.Fields{
				"operation": op,
				"file":      name,
			}).Warn("failed to remove staged file")
		}
	}
}

// stagedName generates a per-invocation unique filename so concurrent
// operations on the shared engine cannot overwrite each other's files.
func stagedName(prefix, ext string) string {
	return prefix + "-" + uuid.NewString() + ext
}

func readAll(file io.Reader) ([]byte, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}
