package interfaces

import domaintypes "gotr/internal/domain/types"

// SmpEngine is the opaque Socialist Millionaires Protocol sub-machine. It
// is driven entirely through TLVs carried inside data messages; the
// session core never inspects the zero-knowledge proofs themselves.
type SmpEngine interface {
	// InitiateSecret starts an SMP exchange as the initiator over secret,
	// optionally presenting question to the peer, returning the TLV(s) to
	// send.
	InitiateSecret(question string, secret []byte) ([]domaintypes.TLV, error)
	// RespondSecret answers an in-progress SMP exchange begun by the peer.
	RespondSecret(question string, secret []byte) ([]domaintypes.TLV, error)
	// Abort cancels any in-progress exchange, returning an abort TLV to
	// send if one is needed.
	Abort() []domaintypes.TLV

	// HandleTLV offers one inbound TLV to the engine. consumed reports
	// whether the engine claimed it (and the session core should not
	// surface it, or any associated plaintext, to the host).
	HandleTLV(tlv domaintypes.TLV) (reply []domaintypes.TLV, consumed bool, err error)

	// InProgress reports whether an exchange is currently underway.
	InProgress() bool
	// Reset discards in-progress state, e.g. on re-entering Encrypted.
	Reset()
}
