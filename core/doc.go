// Package core contains the business logic for the fare feed service.
// It is framework-agnostic and depends on infrastructure only through
// the interfaces sub-package.
//
// The core package is organized into several sub-packages:
//
// - domain: pure domain models (Query, Journey, Resolution, Feed)
// - schedule: candidate departure expansion for datetime and cron queries
// - stations: station code to NLC identifier resolution
// - fares: upstream ticket search, retry policy, fare selection, dispatch
// - feed: assembly of resolved fares into a feed document
// - errors: validation and upstream error types
// - interfaces: contracts for cache, HTTP transport, and logging
//
// All external dependencies are injected via interfaces.Dependencies,
// so every service is testable in isolation.
package core
