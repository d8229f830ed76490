// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"
	"sync"

	"github.com/tbourn/go-barber-booking/internal/events"
)

var _ events.Publisher = (*Recorder)(nil)

// Message is one event captured by Recorder.
type Message struct {
	Key     string
	Payload any
}

// Recorder keeps published events in memory. Tests use it to assert on what
// a service emitted; Err, when set, is returned from every Publish.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

// Publish implements events.Publisher.
func (r *Recorder) Publish(_ context.Context, key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.msgs = append(r.msgs, Message{Key: key, Payload: v})
	return nil
}

// Close implements events.Publisher.
func (r *Recorder) Close() error { return nil }

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Keys returns the routing keys published so far, in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Key)
	}
	return out
}
