package interfaces

import (
	"math/big"

	domaintypes "gotr/internal/domain/types"
)

// AKEResult is the key material an AuthContext yields once it reports
// secure: the freshly negotiated local/remote DH values and shared
// secret that seed the KeyMatrix's (Previous,*) cells, plus the peer's
// authenticated long-term public key.
type AKEResult struct {
	Version              int
	LocalDH              domaintypes.DHKeyPair
	RemotePublic         *big.Int
	SharedSecret         *big.Int
	RemoteLongTermPublic [32]byte
}

// AuthContext is the opaque Authenticated Key Exchange state machine. The
// core hands it inbound AKE-kind messages and, when it starts or
// completes, an outbound leg to inject. Its cryptographic internals
// (DH-commit/DH-key/reveal-sig/signature construction) are out of scope
// for the session core: it is consumed only through this interface.
type AuthContext interface {
	// StartAKE begins (or restarts) the handshake as initiator, returning
	// the DH-Commit to send.
	StartAKE() (*domaintypes.AKEMessage, error)

	// HandleMessage processes one inbound AKE-kind message, returning the
	// next leg to send (nil if none) or an error for a malformed/
	// out-of-order message (recoverable: the caller drops and continues).
	HandleMessage(msg domaintypes.AKEMessage) (reply *domaintypes.AKEMessage, err error)

	// IsSecure reports whether the handshake has completed.
	IsSecure() bool

	// Result returns the negotiated key material; valid only once
	// IsSecure reports true.
	Result() (AKEResult, error)

	// Reset discards in-progress handshake state, ready to start fresh.
	Reset()

	// Clone returns an independent copy of the current handshake state,
	// used when a master's AKE progress must be adopted by a newly
	// discovered slave instance.
	Clone() AuthContext
}
