package stream

import (
	"fmt"
	"strings"
	"sync"
)

// TopicRegistry tracks which subscribers listen on which topics.
// Safe for concurrent use.
type TopicRegistry struct {
	mu     sync.RWMutex
	topics map[string]map[string]*Subscriber // topic → subscriberID → subscriber
}

// NewTopicRegistry creates an empty topic registry.
func NewTopicRegistry() *TopicRegistry {
	return &TopicRegistry{topics: make(map[string]map[string]*Subscriber)}
}

// Subscribe adds a subscriber to a topic, creating the topic on first
// use.
func (tr *TopicRegistry) Subscribe(topic string, sub *Subscriber) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.topics[topic] == nil {
		tr.topics[topic] = make(map[string]*Subscriber)
	}
	tr.topics[topic][sub.ID()] = sub
	sub.addTopic(topic)
}

// Unsubscribe removes a subscriber from one topic. Empty topics are
// dropped from the registry.
func (tr *TopicRegistry) Unsubscribe(topic, subscriberID string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.detach(topic, subscriberID)
}

// UnsubscribeAll removes a subscriber from every topic it is on.
func (tr *TopicRegistry) UnsubscribeAll(subscriberID string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for topic := range tr.topics {
		tr.detach(topic, subscriberID)
	}
}

// detach removes one subscription edge. Caller holds the write lock.
func (tr *TopicRegistry) detach(topic, subscriberID string) {
	subs := tr.topics[topic]
	sub, ok := subs[subscriberID]
	if !ok {
		return
	}
	sub.removeTopic(topic)
	delete(subs, subscriberID)
	if len(subs) == 0 {
		delete(tr.topics, topic)
	}
}

// Broadcast sends an envelope to every subscriber on the listed
// topics, at most once per subscriber even when it is on several of
// them. Returns the number of subscribers that accepted the envelope.
func (tr *TopicRegistry) Broadcast(topics []string, evt *Envelope) int {
	tr.mu.RLock()
	targets := make(map[string]*Subscriber)
	for _, topic := range topics {
		for subID, sub := range tr.topics[topic] {
			targets[subID] = sub
		}
	}
	tr.mu.RUnlock()

	// Sends happen outside the lock; a full subscriber drops the
	// envelope rather than blocking the broadcast.
	delivered := 0
	for _, sub := range targets {
		if sub.send(evt) {
			delivered++
		}
	}
	return delivered
}

// TopicCount returns the number of active topics.
func (tr *TopicRegistry) TopicCount() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.topics)
}

// SubscriberCount returns the number of subscribers on a topic.
func (tr *TopicRegistry) SubscriberCount(topic string) int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.topics[topic])
}

// ParseTopicEntity splits a scoped topic like "document:42" into its
// entity type and ID. Global topics ("documents", "firehose") return
// empty strings.
func ParseTopicEntity(topic string) (entityType, entityID string) {
	idx := strings.IndexByte(topic, ':')
	if idx < 0 {
		return "", ""
	}
	return topic[:idx], topic[idx+1:]
}

// ValidateTopic checks whether a topic string names something this
// broker can route.
func ValidateTopic(topic string) error {
	switch topic {
	case TopicDocuments, TopicFirehose:
		return nil
	}

	entityType, entityID := ParseTopicEntity(topic)
	if entityType == "" || entityID == "" {
		return fmt.Errorf("stream: invalid topic %q", topic)
	}
	if entityType != "document" {
		return fmt.Errorf("stream: unknown topic entity type %q", entityType)
	}
	return nil
}
