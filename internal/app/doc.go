// Package app wires the OTR session engine into a runnable process: it
// builds the default Host (internal/relay transport, internal/store
// identity and fingerprint keystores) and the session.Facade for each
// conversation a command opens, from a parsed internal/config.Config.
package app
