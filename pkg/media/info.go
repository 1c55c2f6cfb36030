package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mediakit/internal/mediainfo"
)

// GetVideoInfo probes the input and returns its duration, resolution, and
// frame rate, recovered from the engine's diagnostic log text. Fields whose
// pattern is absent default to zero and are reported as warnings.
func (t *Toolkit) GetVideoInfo(ctx context.Context, file io.Reader) (VideoInfo, error) {
	var zero VideoInfo

	input, err := readAll(file)
	if err != nil {
		return zero, err
	}

	eng, err := t.acquire(ctx)
	if err != nil {
		return zero, err
	}

	in := stagedName("in", ".mp4")
	if err := eng.WriteFile(in, input); err != nil {
		return zero, fmt.Errorf("probe: failed to stage input: %w", err)
	}
	defer t.discard(eng, "probe", in)

	// Accumulate diagnostics for this single invocation only; the listener
	// is detached as soon as the invocation settles so later operations'
	// log text cannot bleed in.
	var diag strings.Builder
	detach := eng.SubscribeLog(func(line string) {
		diag.WriteString(line)
		diag.WriteByte('\n')
	})
	defer detach()

	// A no-output invocation always exits nonzero; the stream diagnostics
	// it prints on the way out are the product here.
	execErr := eng.Exec(ctx, []string{"-hide_banner", "-i", in})
	detach()

	info := mediainfo.Parse(diag.String())
	if execErr != nil && !info.HasDuration && !info.HasVideoStream {
		return zero, fmt.Errorf("%w: %v", ErrExtractInfo, execErr)
	}

	if !info.HasDuration {
		t.log.Warn("probe: no duration in diagnostics; defaulting to 0")
	}
	if !info.HasVideoStream {
		t.log.Warn("probe: no video stream details in diagnostics; defaulting to 0")
	}

	return VideoInfo{
		Duration: info.Duration,
		Width:    info.Width,
		Height:   info.Height,
		FPS:      info.FPS,
	}, nil
}
