// Package keys implements OTR's session-key matrix: the two-by-two grid
// of (local, remote) DH key slots that each hold a derived AES/MAC key
// pair, and the ratchet operations that advance either axis forward as
// new DH values appear on the wire. It is the OTR analogue of a Signal
// double ratchet: two independent generations per side instead of one
// continuously-stepped chain, matching the message-oriented,
// possibly-out-of-order delivery OTR was designed for.
package keys
