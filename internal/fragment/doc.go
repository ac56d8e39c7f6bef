// Package fragment splits outbound OTR-encoded messages that exceed a
// host's transport MTU into numbered pieces, and reassembles inbound
// pieces back into the original message. Non-encoded strings (plaintext,
// queries, errors) pass through unfragmented.
package fragment
