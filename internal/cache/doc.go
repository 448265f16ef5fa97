// Package cache provides the in-memory result cache for the
// benchmark engine. Each result kind (raw scans, discovery catalogs,
// mapping tables, aggregations, summaries, filtered aggregations)
// lives in its own slot with independent freshness tracking.
//
// # Freshness
//
// An entry moves through Fresh, Stale, and Expired states based on
// its age. Stale entries may still be served while a refresh runs in
// the background; Expired entries are treated as missing. The clock
// is injectable for tests.
//
// Invalidation is event-driven rather than purely time-driven: the
// On* methods clear exactly the slots an event makes wrong and keep
// the ones it does not.
package cache
