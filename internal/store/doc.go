// Package store provides file-based persistence for the data a host
// application built on top of the session engine needs across restarts:
// the local long-term signing identity (encrypted at rest) and the
// fingerprints a user has seen or verified for their peers.
//
// Nothing in internal/session or its collaborators depends on this
// package; a Host implementation wires IdentityStore and
// FingerprintStore in to answer GetLocalKeyPair and to drive its own
// trust-on-first-use prompts.
package store
