// Package ake implements OTR's Authenticated Key Exchange: the
// DH-Commit / DH-Key / Reveal-Signature / Signature handshake that
// negotiates a fresh Diffie-Hellman shared secret and binds it to each
// side's long-term signing identity. It is the default
// domain.AuthContext; the session core drives it purely through that
// interface and never sees the message bodies defined here.
package ake
