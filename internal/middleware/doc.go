// Package middleware provides the HTTP middleware chain: request ID
// generation, structured request logging, panic recovery with RFC
// 7807 responses, rate limiting, security headers, and compression.
package middleware
