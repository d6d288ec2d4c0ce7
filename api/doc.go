// Package api provides the HTTP layer for the fare feed service.
//
// The package is structured as follows:
//
// - server.go: chi router configuration and middleware wiring
// - handlers/: HTTP request handlers for the feed endpoints
// - dto/: request parsing/validation and JSON Feed response shapes
// - middleware/: request logging and per-IP rate limiting
//
// All endpoints are GET and return either a JSON Feed document
// (application/feed+json) or a JSON error body. Validation failures
// report every violated rule in a single response so a misconfigured
// feed reader URL can be fixed in one pass.
package api
