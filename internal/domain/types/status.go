package types

// SessionStatus is the top-level state of a SessionCore's state machine.
type SessionStatus int

const (
	// StatusPlaintext is the initial state: no session keys, data messages
	// are refused or passed through as plain text per policy.
	StatusPlaintext SessionStatus = iota
	// StatusEncrypted means AKE completed and a KeyMatrix is installed.
	StatusEncrypted
	// StatusFinished means the peer disconnected; outbound messages are
	// dropped until the local side ends the session or a new AKE completes.
	StatusFinished
)

// String renders the status for logging.
func (s SessionStatus) String() string {
	switch s {
	case StatusPlaintext:
		return "PLAINTEXT"
	case StatusEncrypted:
		return "ENCRYPTED"
	case StatusFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// OfferStatus tracks the lifetime of a whitespace-tag offer attached to
// outgoing plaintext.
type OfferStatus int

const (
	OfferIdle OfferStatus = iota
	OfferSent
	OfferAccepted
	OfferRejected
)

func (o OfferStatus) String() string {
	switch o {
	case OfferIdle:
		return "idle"
	case OfferSent:
		return "sent"
	case OfferAccepted:
		return "accepted"
	case OfferRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// KeySlot addresses one axis of the 2x2 KeyMatrix.
type KeySlot int

const (
	Previous KeySlot = 0
	Current  KeySlot = 1
)

func (k KeySlot) String() string {
	if k == Previous {
		return "previous"
	}
	return "current"
}
