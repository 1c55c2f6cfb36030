// Package media is a client-side facade over a shared transcoding engine,
// exposing narrow operations: thumbnail extraction, trimming, format
// conversion, audio extraction, and metadata probing.
package media

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"mediakit/internal/progress"
	"mediakit/internal/session"
	"mediakit/pkg/config"
)

// Engine is the contract the pipeline needs from a loaded engine: a private
// staging filesystem, command execution, and per-invocation event channels.
type Engine interface {
	WriteFile(name string, data []byte) error
	ReadFile(name string) (any, error)
	DeleteFile(name string) error
	Exec(ctx context.Context, args []string) error
	SubscribeProgress(fn func(fraction float64)) (cancel func())
	SubscribeLog(fn func(line string)) (cancel func())
	EncodeThreads() int
}

// Result is a processed media payload tagged with its MIME type.
type Result struct {
	Data []byte
	MIME string
}

// VideoInfo is the metadata recovered by GetVideoInfo. Fields whose pattern
// was absent from the engine diagnostics are zero.
type VideoInfo struct {
	Duration float64 // seconds
	Width    int
	Height   int
	FPS      float64
}

// ProgressFunc receives operation completion as a 0-100 percentage.
type ProgressFunc = progress.Func

// ErrExtractInfo is returned when a probing invocation fails and yields no
// usable diagnostics.
var ErrExtractInfo = errors.New("failed to extract video info")

// Toolkit is the caller-facing surface. All operations borrow the same
// lazily-loaded engine instance.
type Toolkit struct {
	acquire func(ctx context.Context) (Engine, error)
	log     *logrus.Entry
}

// New builds a toolkit over a session-managed engine. The engine is loaded
// on the first operation, not here.
func New(cfg *config.Config, log *logrus.Logger) *Toolkit {
	if log == nil {
		log = logrus.StandardLogger()
	}
	mgr := session.NewManager(cfg, log)
	return &Toolkit{
		acquire: func(ctx context.Context) (Engine, error) {
			return mgr.Acquire(ctx)
		},
		log: log.WithField("component", "media"),
	}
}
