// Package middleware provides composable middleware for ChainSign
// engine operations.
//
// Middleware wrap each mutating operation (submit, approve, reject)
// synchronously. The engine composes them with [Chain] and runs the
// result around its core logic:
//
//	eng, _ := engine.New(store,
//	    engine.WithMiddleware(middleware.Logging(logger)),
//	    engine.WithMiddleware(middleware.Recover(logger)),
//	    engine.WithMiddleware(middleware.Tracing()),
//	)
//
// Provided middleware:
//
//   - [Logging] — structured start/completion logs
//   - [Recover] — converts handler panics into errors
//   - [Timeout] — per-operation deadline
//   - [Tracing] — OpenTelemetry spans per operation
//   - [RateLimit] — token-bucket bound on mutation rate
package middleware
