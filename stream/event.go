// Package stream provides a real-time broker for document lifecycle
// events. It taps the event bus and fans events out to connected
// watchers via topic-based pub/sub.
package stream

import (
	"strconv"
	"time"

	"github.com/numboxia/chainsign/event"
)

// Envelope is the message sent to subscribers on a topic channel.
type Envelope struct {
	// Kind identifies the lifecycle event.
	Kind event.Kind `json:"kind"`

	// Timestamp is when the transition occurred.
	Timestamp time.Time `json:"ts"`

	// Topic is the channel this envelope was published on.
	Topic string `json:"topic"`

	// DocumentID names the document the event belongs to.
	DocumentID uint64 `json:"document_id"`

	// Actor is the identity that caused the transition.
	Actor string `json:"actor"`

	// EventID is the persisted event's identifier.
	EventID string `json:"event_id"`
}

// Topic names follow a pattern:
//
//	document:<id>  — events for a specific document
//	documents      — all document lifecycle events
//	firehose       — everything

const (
	TopicDocuments = "documents"
	TopicFirehose  = "firehose"
)

// DocumentTopic returns the topic name for a specific document.
func DocumentTopic(docID uint64) string {
	return "document:" + strconv.FormatUint(docID, 10)
}
