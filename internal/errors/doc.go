// Package errors defines the API error types and sentinel errors used
// across surveybench. APIError renders through go-chi/render with a
// stable status code, machine-readable error code, and message;
// FromError maps internal sentinels such as ErrRowStoreUnavailable
// onto the right HTTP responses.
package errors
