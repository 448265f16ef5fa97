// Package app wires surveybench together: configuration, logging,
// telemetry, the row store and its extract loader, the mapping
// provider, the benchmark service, and the HTTP server. It owns
// startup ordering and graceful shutdown.
package app
