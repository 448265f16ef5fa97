// Package services contains the benchmark orchestration layer. The
// BenchmarkService wires the row store, mapping provider, normalizers,
// discovery, aggregation, and cache into the operations the transport
// layer exposes.
//
// # Request Flow
//
// A call such as GetAggregatedData first consults the cache. A fresh
// entry is returned directly. A stale entry is served immediately
// while a background goroutine recomputes it; only a missing or
// expired entry blocks the caller on a full recompute. Recomputes
// fan out across survey sources with a bounded worker pool, and a
// single source failing is logged and skipped rather than failing
// the whole request.
//
// # Invalidation
//
// The On* methods translate domain events (a new extract ingested, a
// mapping edited, the corpus cleared) into targeted cache
// invalidation. A mapping change keeps the raw scan results so labels
// can be re-resolved without re-reading every source.
package services
