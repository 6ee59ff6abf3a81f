package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/numboxia/chainsign/stream"
)

// WatchOption scopes a Watch subscription.
type WatchOption func(url.Values)

// WatchDocument limits the subscription to one document's events.
func WatchDocument(docID uint64) WatchOption {
	return func(q url.Values) { q.Set("document", strconv.FormatUint(docID, 10)) }
}

// WatchFirehose subscribes to every event the server emits.
func WatchFirehose() WatchOption {
	return func(q url.Values) { q.Set("firehose", "true") }
}

// Watch opens a websocket subscription and returns a channel of
// lifecycle envelopes. The channel closes when the context is
// cancelled or the connection drops. Without options the subscription
// covers all document events.
func (c *Client) Watch(ctx context.Context, opts ...WatchOption) (<-chan *stream.Envelope, error) {
	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}

	wsURL := websocketURL(c.baseURL) + "/v1/watch"
	if encoded := q.Encode(); encoded != "" {
		wsURL += "?" + encoded
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("chainsign/client: watch dial: %w", err)
	}

	ch := make(chan *stream.Envelope)

	// Close the connection when the context ends so the read loop
	// unblocks.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			var env stream.Envelope
			if readErr := conn.ReadJSON(&env); readErr != nil {
				if ctx.Err() == nil {
					c.logger.Debug("chainsign client watch closed", "error", readErr)
				}
				return
			}
			select {
			case ch <- &env:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// websocketURL converts an http(s) base URL to its ws(s) equivalent.
func websocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
