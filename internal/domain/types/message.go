package types

import "math/big"

// MessageKind classifies a decoded top-level OTR message.
type MessageKind int

const (
	KindPlaintext MessageKind = iota
	KindQuery
	KindError
	KindDHCommit
	KindDHKey
	KindRevealSignature
	KindSignature
	KindData
	KindUnknown
)

func (k MessageKind) String() string {
	switch k {
	case KindPlaintext:
		return "plaintext"
	case KindQuery:
		return "query"
	case KindError:
		return "error"
	case KindDHCommit:
		return "dh-commit"
	case KindDHKey:
		return "dh-key"
	case KindRevealSignature:
		return "reveal-signature"
	case KindSignature:
		return "signature"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// IsAKE reports whether this kind belongs to the four-message handshake.
func (k MessageKind) IsAKE() bool {
	switch k {
	case KindDHCommit, KindDHKey, KindRevealSignature, KindSignature:
		return true
	default:
		return false
	}
}

// QueryMessage advertises (or asks about) supported protocol versions.
type QueryMessage struct {
	Versions []int
}

// ErrorMessage carries a host-readable error string from the peer.
type ErrorMessage struct {
	Text string
}

// PlainTextMessage is cleartext, optionally carrying a whitespace tag that
// lists the sender's supported versions. Versions is empty when no tag was
// present.
type PlainTextMessage struct {
	Text     string
	Versions []int
}

// AKEMessage is an opaque container for one leg of the AKE handshake
// (DH-Commit, DH-Key, Reveal-Signature, Signature). The core never
// inspects Body; it is produced and consumed entirely by AuthContext. The
// envelope fields are what the core and InstanceRouter need to route it.
type AKEMessage struct {
	Kind       MessageKind
	Version    int
	SenderTag  InstanceTag
	ReceiverTag InstanceTag
	Body       []byte
}

// DataMessageT is the authenticated (and, except for the plaintext-prefix
// fields, encrypted) portion of a data message, serialized deterministically
// by Codec before MAC computation.
type DataMessageT struct {
	Version          int
	SenderTag        InstanceTag
	ReceiverTag      InstanceTag
	Flags            byte
	SenderKeyID      uint32
	RecipientKeyID   uint32
	NextDH           *big.Int
	CounterTopHalf   uint64
	EncryptedMessage []byte
}

// DataMessage is a full OTR data message: the authenticated envelope T,
// its MAC, and any old receiving MAC keys being revealed.
type DataMessage struct {
	T               DataMessageT
	MAC             [20]byte
	OldMACKeys      []byte
}

// Data message flags.
const (
	FlagNone               byte = 0x00
	FlagIgnoreUnreadable   byte = 0x01
)

// Fragment is one piece of a split OTR-encoded message, per the
// "?OTR|sender|receiver,k,n,payload," wire framing.
type Fragment struct {
	SenderTag   InstanceTag
	ReceiverTag InstanceTag
	K           int
	N           int
	Payload     string
}
