// Package progress forwards engine completion ticks to caller callbacks.
package progress

import "sync"

// Subscriber is the progress side-channel an engine exposes. The returned
// cancel func detaches the listener.
type Subscriber interface {
	SubscribeProgress(fn func(fraction float64)) (cancel func())
}

// Func receives operation completion as a 0-100 percentage.
type Func func(percent float64)

// Relay is a per-invocation subscription that rescales engine fractions
// (0-1) to percentages before forwarding them.
type Relay struct {
	detach func()
	once   sync.Once
}

// Attach subscribes fn to src for the duration of one invocation. The relay
// must be detached on the operation's exit path; listeners otherwise
// accumulate across calls.
func Attach(src Subscriber, fn Func) *Relay {
	r := &Relay{}
	r.detach = src.SubscribeProgress(func(fraction float64) {
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		fn(fraction * 100)
	})
	return r
}

// Detach unsubscribes the relay. Safe to call more than once.
func (r *Relay) Detach() {
	r.once.Do(r.detach)
}
