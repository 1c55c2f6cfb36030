// Package engine wraps the ffmpeg binary behind the narrow contract the
// operation pipeline needs: a private staging filesystem, command execution,
// and progress/log event channels.
package engine

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Capabilities describes what the resolved engine binary can encode with,
// populated by probe.go at load time.
type Capabilities struct {
	VP9  bool
	Opus bool
	MP3  bool
	PCM  bool

	CPUModel      string
	EncodeThreads int
}

// Engine is a loaded transcoding engine instance. It is a process-wide
// singleton owned by the session manager; operations borrow it and stage
// files under per-invocation unique names.
type Engine struct {
	binPath    string
	stagingDir string
	fs         afero.Fs
	caps       Capabilities
	log        *logrus.Entry

	// Invocations are serialized: the staging namespace and the event
	// channels are shared, so concurrent execs would interleave their
	// progress and log streams.
	execMu sync.Mutex

	subMu    sync.Mutex
	nextID   int
	logSubs  map[int]func(string)
	progSubs map[int]func(float64)
}

// New assembles an engine around an already-resolved binary and staging
// filesystem. Load is the usual entry point; New exists for callers that
// manage binary resolution themselves.
func New(binPath, stagingDir string, fsys afero.Fs, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		binPath:    binPath,
		stagingDir: stagingDir,
		fs:         fsys,
		caps:       Capabilities{EncodeThreads: defaultEncodeThreads()},
		log:        log.WithField("component", "engine"),
		logSubs:    make(map[int]func(string)),
		progSubs:   make(map[int]func(float64)),
	}
}

// WriteFile stages a named byte blob into the engine's private filesystem.
func (e *Engine) WriteFile(name string, data []byte) error {
	return afero.WriteFile(e.fs, name, data, 0644)
}

// ReadFile returns the staged file's contents. The contract allows
// bytes-or-text, hence the any return; current reads always produce bytes.
func (e *Engine) ReadFile(name string) (any, error) {
	data, err := afero.ReadFile(e.fs, name)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteFile removes a staged file.
func (e *Engine) DeleteFile(name string) error {
	return e.fs.Remove(name)
}

// Capabilities reports the encoder support discovered at load time.
func (e *Engine) Capabilities() Capabilities {
	return e.caps
}

// EncodeThreads is the thread count multi-threaded encoders should be run with.
func (e *Engine) EncodeThreads() int {
	return e.caps.EncodeThreads
}

// SubscribeLog attaches fn to the engine's diagnostic line channel. The
// returned cancel func detaches it; callers must cancel once their
// invocation settles or lines from later invocations bleed in.
func (e *Engine) SubscribeLog(fn func(line string)) (cancel func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextID
	e.nextID++
	e.logSubs[id] = fn
	return func() {
		e.subMu.Lock()
		delete(e.logSubs, id)
		e.subMu.Unlock()
	}
}

// SubscribeProgress attaches fn to the engine's progress channel. Fractions
// are in [0,1]. Same detach rules as SubscribeLog.
func (e *Engine) SubscribeProgress(fn func(fraction float64)) (cancel func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextID
	e.nextID++
	e.progSubs[id] = fn
	return func() {
		e.subMu.Lock()
		delete(e.progSubs, id)
		e.subMu.Unlock()
	}
}

func (e *Engine) emitLog(line string) {
	for _, fn := range e.snapshotLogSubs() {
		fn(line)
	}
}

func (e *Engine) emitProgress(fraction float64) {
	e.subMu.Lock()
	fns := make([]func(float64), 0, len(e.progSubs))
	for _, fn := range e.progSubs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()
	for _, fn := range fns {
		fn(fraction)
	}
}

// snapshotLogSubs copies the listener set so callbacks run outside the lock
// and may themselves subscribe or detach.
func (e *Engine) snapshotLogSubs() []func(string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	fns := make([]func(string), 0, len(e.logSubs))
	for _, fn := range e.logSubs {
		fns = append(fns, fn)
	}
	return fns
}
