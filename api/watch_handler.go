package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/numboxia/chainsign/id"
	"github.com/numboxia/chainsign/stream"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const watchWriteTimeout = 10 * time.Second

// watch upgrades the connection to a websocket and streams lifecycle
// envelopes for the requested topics. The per-document route (or a
// ?document=<id> query parameter) scopes to one document,
// ?firehose=true takes everything, otherwise the connection gets all
// document events.
func (a *API) watch(w http.ResponseWriter, r *http.Request) {
	topics := watchTopics(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subID := id.NewSubscriberID().String()
	sub := a.broker.Subscribe(subID, topics...)
	defer a.broker.RemoveSubscriber(subID)

	// Reader goroutine: drains client frames and detects close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case env, ok := <-sub.C():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout)) //nolint:errcheck // deadline errors surface on WriteJSON
			if writeErr := conn.WriteJSON(env); writeErr != nil {
				a.logger.Debug("api: watch write failed", "subscriber", subID, "error", writeErr)
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func watchTopics(r *http.Request) []string {
	q := r.URL.Query()
	if docID, err := documentIDParam(r); err == nil && docID > 0 {
		return []string{stream.DocumentTopic(docID)}
	}
	if docID := queryInt(r, "document", 0); docID > 0 {
		return []string{stream.DocumentTopic(uint64(docID))}
	}
	if q.Get("firehose") == "true" {
		return []string{stream.TopicFirehose}
	}
	return []string{stream.TopicDocuments}
}
