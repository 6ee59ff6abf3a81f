package stream

import (
	"sync"
	"sync/atomic"
)

// Subscriber receives envelopes from topics it is subscribed to.
// Delivery is non-blocking: when the subscriber's buffer is full the
// envelope is dropped rather than stalling the publishing operation.
type Subscriber struct {
	// id uniquely identifies this subscriber.
	id string

	// ch is the buffered channel envelopes are sent on.
	ch chan *Envelope

	// topics tracks which topics this subscriber is on.
	topics map[string]struct{}
	mu     sync.RWMutex

	// filter is an optional predicate. If set, only envelopes
	// matching the filter are delivered.
	filter func(*Envelope) bool

	// dropped counts envelopes lost to a full buffer.
	dropped atomic.Int64

	// closed prevents double-close of the channel.
	closed atomic.Bool
}

// NewSubscriber creates a subscriber with the given buffer size.
func NewSubscriber(id string, bufferSize int) *Subscriber {
	return &Subscriber{
		id:     id,
		ch:     make(chan *Envelope, bufferSize),
		topics: make(map[string]struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string { return s.id }

// C returns the read-only envelope channel.
func (s *Subscriber) C() <-chan *Envelope { return s.ch }

// Dropped returns the number of envelopes dropped due to a full buffer.
func (s *Subscriber) Dropped() int64 { return s.dropped.Load() }

// SetFilter sets an optional envelope filter predicate.
func (s *Subscriber) SetFilter(fn func(*Envelope) bool) {
	s.filter = fn
}

// addTopic records that this subscriber is on the given topic.
func (s *Subscriber) addTopic(topic string) {
	s.mu.Lock()
	s.topics[topic] = struct{}{}
	s.mu.Unlock()
}

// removeTopic removes a topic from the subscriber's tracked set.
func (s *Subscriber) removeTopic(topic string) {
	s.mu.Lock()
	delete(s.topics, topic)
	s.mu.Unlock()
}

// Topics returns a copy of all subscribed topic names.
func (s *Subscriber) Topics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.topics))
	for t := range s.topics {
		out = append(out, t)
	}
	return out
}

// send attempts to deliver an envelope to the subscriber.
// Returns false if the envelope was dropped (closed, filter mismatch,
// or full buffer).
func (s *Subscriber) send(evt *Envelope) bool {
	if s.closed.Load() {
		return false
	}

	if s.filter != nil && !s.filter(evt) {
		return false
	}

	// Non-blocking send.
	select {
	case s.ch <- evt:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Close closes the subscriber's channel. Safe to call more than once.
func (s *Subscriber) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.ch)
	}
}
