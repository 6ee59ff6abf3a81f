package stream

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/numboxia/chainsign/event"
	"github.com/numboxia/chainsign/id"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEvent(docID uint64, kind event.Kind) *event.Event {
	return &event.Event{
		ID:         id.NewEventID(),
		Kind:       kind,
		DocumentID: docID,
		Actor:      "alice",
		OccurredAt: time.Now().UTC(),
	}
}

func TestBrokerSubscribeAndForward(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("sub-1", TopicDocuments)

	b.Forward(testEvent(42, event.KindDocumentSubmitted))

	// Envelope should arrive on the subscriber channel.
	select {
	case received := <-sub.C():
		if received.Kind != event.KindDocumentSubmitted {
			t.Errorf("Kind = %q, want %q", received.Kind, event.KindDocumentSubmitted)
		}
		if received.DocumentID != 42 {
			t.Errorf("DocumentID = %d, want 42", received.DocumentID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
	}
}

func TestBrokerMultipleTopics(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	// Firehose gets everything; the document topic only its own.
	firehose := b.Subscribe("firehose-sub", TopicFirehose)
	docSub := b.Subscribe("doc-sub", DocumentTopic(7))

	b.Forward(testEvent(7, event.KindDocumentApproved))

	for _, sub := range []*Subscriber{firehose, docSub} {
		select {
		case <-sub.C():
			// ok
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s timed out", sub.ID())
		}
	}

	// An event for a different document must not reach docSub.
	b.Forward(testEvent(8, event.KindDocumentRejected))

	select {
	case <-docSub.C():
		t.Fatal("should not receive envelope for different document")
	case <-time.After(50 * time.Millisecond):
		// ok — no envelope
	}
}

func TestBrokerDeduplicatesAcrossTopics(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	// One subscriber on both a document topic and the firehose must
	// receive each event once.
	sub := b.Subscribe("multi", DocumentTopic(1), TopicFirehose)

	b.Forward(testEvent(1, event.KindDocumentSubmitted))

	select {
	case <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
	}

	select {
	case <-sub.C():
		t.Fatal("envelope delivered twice to the same subscriber")
	case <-time.After(50 * time.Millisecond):
		// ok
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("sub-rm", TopicFirehose)
	b.Unsubscribe("sub-rm", TopicFirehose)

	b.Forward(testEvent(3, event.KindDocumentSubmitted))

	select {
	case <-sub.C():
		t.Fatal("unsubscribed subscriber should not receive envelopes")
	case <-time.After(50 * time.Millisecond):
		// ok
	}
}

func TestBrokerRemoveSubscriberClosesChannel(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("sub-close", TopicFirehose)
	b.RemoveSubscriber("sub-close")

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	if _, found := b.GetSubscriber("sub-close"); found {
		t.Error("subscriber still registered after removal")
	}
}

func TestBrokerBufferOverflowDrops(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger(), WithBufferSize(1))

	sub := b.Subscribe("slow", TopicFirehose)

	// Nobody drains, so the second forward overflows the buffer.
	b.Forward(testEvent(1, event.KindDocumentSubmitted))
	b.Forward(testEvent(1, event.KindDocumentApproved))

	if sub.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", sub.Dropped())
	}
}

func TestBrokerSubscriberFilter(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("filtered", TopicFirehose)
	sub.SetFilter(func(env *Envelope) bool {
		return env.Kind == event.KindDocumentRejected
	})

	b.Forward(testEvent(1, event.KindDocumentApproved))
	b.Forward(testEvent(1, event.KindDocumentRejected))

	select {
	case received := <-sub.C():
		if received.Kind != event.KindDocumentRejected {
			t.Errorf("Kind = %q, want %q", received.Kind, event.KindDocumentRejected)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for filtered envelope")
	}
}

func TestBrokerStats(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("stats-sub", TopicFirehose)
	b.Forward(testEvent(1, event.KindDocumentSubmitted))

	<-sub.C()

	stats := b.Stats()
	if stats.SubscriberCount != 1 {
		t.Errorf("SubscriberCount = %d, want 1", stats.SubscriberCount)
	}
	if stats.TotalPublished != 1 {
		t.Errorf("TotalPublished = %d, want 1", stats.TotalPublished)
	}
}

func TestBrokerShutdown(t *testing.T) {
	t.Parallel()

	b := NewBroker(testLogger())

	sub := b.Subscribe("shutdown-sub", TopicFirehose)

	if err := b.OnShutdown(context.Background()); err != nil {
		t.Fatalf("OnShutdown: %v", err)
	}

	if _, ok := <-sub.C(); ok {
		t.Error("expected closed channel after shutdown")
	}
}

func TestValidateTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic   string
		wantErr bool
	}{
		{TopicDocuments, false},
		{TopicFirehose, false},
		{DocumentTopic(12), false},
		{"document:", true},
		{"widget:7", true},
		{"nonsense", true},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			err := ValidateTopic(tt.topic)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopic(%q) error = %v, wantErr %v", tt.topic, err, tt.wantErr)
			}
		})
	}
}
