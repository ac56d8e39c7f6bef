package interfaces

import domaintypes "gotr/internal/domain/types"

// Decoded is the result of parsing one top-level (already reassembled,
// non-fragment) wire string. Exactly one of the pointer fields is set,
// matching Kind.
type Decoded struct {
	Kind      domaintypes.MessageKind
	Query     *domaintypes.QueryMessage
	Error     *domaintypes.ErrorMessage
	PlainText *domaintypes.PlainTextMessage
	AKE       *domaintypes.AKEMessage
	Data      *domaintypes.DataMessage
}

// Codec parses and serializes individual on-wire OTR message types. It
// does not fragment or reassemble; that is the Fragmenter/Assembler's job.
type Codec interface {
	// Decode classifies and parses raw. An empty or nonsense input yields
	// Kind == KindPlaintext with PlainText.Text == raw, per the "return
	// unchanged" contract of the inbound pipeline.
	Decode(raw string) (Decoded, error)

	EncodeQuery(versions []int, fallback string) string
	EncodeError(text string) string
	EncodePlainText(text string, whitespaceVersions []int) string
	EncodeAKE(msg domaintypes.AKEMessage) (string, error)
	EncodeData(msg domaintypes.DataMessage) (string, error)

	EncodeTLVs(tlvs []domaintypes.TLV) []byte
	DecodeTLVs(b []byte) ([]domaintypes.TLV, error)

	// DataAuthenticatedBytes returns the exact byte sequence a data
	// message's MAC covers: everything EncodeData would write up to, but
	// not including, the MAC field itself. Both EncodeData and a
	// verifier call this so the two sides never compute the MAC over
	// subtly different bytes.
	DataAuthenticatedBytes(t domaintypes.DataMessageT) []byte

	// IsEncoded reports whether s carries the OTR-encoded framing prefix,
	// the signal the Fragmenter uses to decide whether to split at all.
	IsEncoded(s string) bool
}
