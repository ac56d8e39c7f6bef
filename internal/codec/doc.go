// Package codec implements the default domain.Codec: parsing and
// serializing the individual on-wire OTR message types (query, error,
// plaintext with an optional whitespace tag, the four AKE legs, and data
// messages), plus TLV framing. It does not fragment or reassemble; see
// internal/fragment for that.
package codec
