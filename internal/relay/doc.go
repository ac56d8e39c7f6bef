// Package relay provides an HTTP store-and-forward transport a default
// Host implementation can use to carry OTR wire frames between peers
// that are not simultaneously online.
//
// The relay itself never parses or authenticates a frame's content; it
// is a dumb mailbox keyed by account name. All of OTR's confidentiality,
// integrity, and deniability properties come from the frame's own
// contents, produced by internal/session and internal/codec.
//
// Requests are JSON over HTTP and take a context for cancellation.
// Non-2xx statuses are returned as errors naming the method, the URL
// (GET) or path (POST), and the status text.
package relay
