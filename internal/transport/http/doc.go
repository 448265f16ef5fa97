// Package http exposes the benchmark engine over HTTP using chi.
// Handlers depend on the BenchmarkService interface rather than the
// concrete service so they can be tested with a stub.
package http
