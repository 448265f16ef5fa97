// Package normalize maps raw survey extract values onto canonical
// dimensions. Survey vendors label the same specialty, region,
// provider type, and compensation variable in wildly different ways;
// this package resolves those labels into a shared vocabulary so rows
// from different sources can be aggregated together.
//
// # Resolution Order
//
// Every normalizer applies its sources in the same order:
//
//  1. Curated mappings with an exact (year-tolerant) source match
//  2. Curated mappings matched case-insensitively
//  3. Learned mappings accumulated from prior user corrections
//  4. Built-in heuristics and keyword rules
//  5. Cleaned passthrough of the raw label
//
// Curated entries always win over learned ones, and learned entries
// always win over heuristics. A label that nothing recognizes is
// passed through cleaned rather than dropped, so unknown variables
// remain visible downstream.
//
// # Row Formats
//
// DetectRowFormat classifies a header row as long (one metric column
// such as "Mean" or "P50" describing a single variable per row) or
// wide (percentile-suffixed columns such as "tcc_p50" spread across
// one row per group). A source can carry both shapes at once; the
// long form wins when the same variable appears in both.
package normalize
