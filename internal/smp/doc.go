// Package smp implements the Socialist Millionaires Protocol sub-machine
// that lets two OTR peers confirm they hold the same shared secret
// without revealing it to each other when they don't. The session core
// never inspects this package's internals: it only ever offers and
// receives domain.TLV values through the domain.SmpEngine interface.
//
// The exchange here is a deliberately reduced two-party equality check
// (a SPEKE-style construction: a Diffie-Hellman group generator derived
// from the secret itself, so the two sides' shared DH output only agrees
// when their secrets do) rather than libotr's full five-exponent
// zero-knowledge proof. It keeps the property that matters for this
// engine — neither side learns anything about a mismatched secret beyond
// the fact that it mismatched — without the proof machinery, which is out
// of scope here.
package smp
