package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"mediakit/internal/mediainfo"
)

// Exec runs one engine command with the staging dir as working directory, so
// argv refers to staged files by bare name. Diagnostic output is fanned out
// to log listeners; progress fractions are derived from the time= position
// against the Duration: announced earlier in the same run.
func (e *Engine) Exec(ctx context.Context, args []string) error {
	e.execMu.Lock()
	defer e.execMu.Unlock()

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	cmd.Dir = e.stagingDir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	e.log.WithField("pid", cmd.Process.Pid).Debug("engine invocation started")

	tail := e.scanDiagnostics(stderr)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("engine invocation failed: %w: %s", err, tail)
	}
	return nil
}

// scanDiagnostics reads the engine's stderr to EOF, feeding every line to
// log listeners and emitting progress fractions once the total duration is
// known. It returns the last few lines for error reporting.
func (e *Engine) scanDiagnostics(r io.Reader) string {
	scanner := bufio.NewScanner(r)

	var tail []string
	var totalSec float64

	for scanner.Scan() {
		line := scanner.Text()
		e.emitLog(line)

		if totalSec == 0 && strings.Contains(line, "Duration:") {
			if sec, ok := mediainfo.ParseClock(line); ok {
				totalSec = sec
			}
		}

		if totalSec > 0 {
			if idx := strings.Index(line, "time="); idx >= 0 {
				if cur, ok := mediainfo.ParseClock(line[idx:]); ok {
					frac := cur / totalSec
					if frac > 1 {
						frac = 1
					}
					e.emitProgress(frac)
				}
			}
		}

		tail = append(tail, line)
		if len(tail) > errTailLines {
			tail = tail[1:]
		}
	}

	return truncate(strings.Join(tail, " | "), errTailBytes)
}

const (
	errTailLines = 5
	errTailBytes = 500
)

// truncate caps diagnostic text embedded in errors to prevent log bloat.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "... (truncated)"
	}
	return s
}
