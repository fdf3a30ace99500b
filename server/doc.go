// Package server provides the HTTP surface of formkit: a Gin engine served
// over h2c, a named-route table used to build file URLs, the static upload
// handler and a small middleware stack.
//
// Routes registered with GET or POST under a name can be turned back into
// URLs with Routes().Build, which is how the local storage backend links to
// the "static_upload" handler:
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware()
//	server.RegisterStaticUploads(srv, "/uploads", store)
//	storageCfg.URLs = srv.Routes()
//
// # Middleware
//
// Built-in middleware (server/middleware) is applied around the whole mux:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin settings for browser uploads
//   - BodySize: request body size limits
//   - Logging: request logging with duration tracking
package server
