// Package inference provides the HTTP client for the local model
// inference server and the prompt composition used by the
// character-aware generation endpoint.
//
// The client is a thin pass-through boundary: request payloads are
// forwarded verbatim and upstream responses, including non-2xx
// statuses, are returned to the caller unchanged. Only transport
// failures (connection refused, timeout) surface as errors.
package inference
