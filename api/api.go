// Package api exposes the approval engine over HTTP. Routes live under
// /v1; mutating routes require an authenticated identity, resolved by
// the configured auth.Authenticator from the request's bearer token.
// A websocket watch endpoint streams lifecycle events in real time
// when the API is built with a stream broker.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/numboxia/chainsign/auth"
	"github.com/numboxia/chainsign/engine"
	"github.com/numboxia/chainsign/stream"
)

// API wires the HTTP handlers over an Engine.
type API struct {
	eng    *engine.Engine
	auth   auth.Authenticator
	broker *stream.Broker
	logger *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithAuthenticator sets the authenticator used to resolve the caller
// identity from bearer tokens. Without one, all authenticated routes
// return 401.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(api *API) { api.auth = a }
}

// WithBroker enables the websocket watch endpoint, backed by the given
// stream broker.
func WithBroker(b *stream.Broker) Option {
	return func(api *API) { api.broker = b }
}

// WithLogger sets the API logger.
func WithLogger(l *slog.Logger) Option {
	return func(api *API) { api.logger = l }
}

// New creates an API over the given engine.
func New(eng *engine.Engine, opts ...Option) *API {
	a := &API{
		eng:    eng,
		logger: eng.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	a.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all routes into the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		// Reads are open; writes go through the authenticator.
		r.Get("/documents", a.listDocuments)
		r.Get("/documents/counts", a.documentCounts)
		r.Get("/documents/{documentID}", a.getDocument)
		r.Get("/documents/{documentID}/approvers", a.listApprovers)
		r.Get("/documents/{documentID}/records", a.listRecords)
		r.Get("/documents/{documentID}/events", a.listEvents)
		r.Get("/stats", a.stats)

		r.Group(func(r chi.Router) {
			r.Use(a.requireIdentity)
			r.Post("/documents", a.submitDocument)
			r.Post("/documents/{documentID}/approve", a.approveDocument)
			r.Post("/documents/{documentID}/reject", a.rejectDocument)
		})

		if a.broker != nil {
			r.Get("/watch", a.watch)
			r.Get("/documents/{documentID}/watch", a.watch)
		}
	})
}
