package domain

import (
	interfaces "gotr/internal/domain/interfaces"
	types "gotr/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact
// imports elsewhere in the module.
type (
	SessionID        = types.SessionID
	InstanceTag      = types.InstanceTag
	SessionStatus    = types.SessionStatus
	OfferStatus      = types.OfferStatus
	KeySlot          = types.KeySlot
	Policy           = types.Policy
	TLV              = types.TLV
	DHKeyPair        = types.DHKeyPair
	LongTermKeyPair  = types.LongTermKeyPair
	Fingerprint      = types.Fingerprint
	MessageKind      = types.MessageKind
	QueryMessage     = types.QueryMessage
	ErrorMessage     = types.ErrorMessage
	PlainTextMessage = types.PlainTextMessage
	AKEMessage       = types.AKEMessage
	DataMessageT     = types.DataMessageT
	DataMessage      = types.DataMessage
	Fragment         = types.Fragment

	StatusChangedEvent              = types.StatusChangedEvent
	MultipleInstancesDetectedEvent  = types.MultipleInstancesDetectedEvent
	OutgoingSessionChangedEvent     = types.OutgoingSessionChangedEvent
)

const (
	ZeroTag = types.ZeroTag

	StatusPlaintext = types.StatusPlaintext
	StatusEncrypted = types.StatusEncrypted
	StatusFinished  = types.StatusFinished

	OfferIdle     = types.OfferIdle
	OfferSent     = types.OfferSent
	OfferAccepted = types.OfferAccepted
	OfferRejected = types.OfferRejected

	Previous = types.Previous
	Current  = types.Current

	KindPlaintext       = types.KindPlaintext
	KindQuery           = types.KindQuery
	KindError           = types.KindError
	KindDHCommit        = types.KindDHCommit
	KindDHKey           = types.KindDHKey
	KindRevealSignature = types.KindRevealSignature
	KindSignature       = types.KindSignature
	KindData            = types.KindData
	KindUnknown         = types.KindUnknown

	TLVPadding     = types.TLVPadding
	TLVDisconnect  = types.TLVDisconnect
	TLVSMP1        = types.TLVSMP1
	TLVSMP2        = types.TLVSMP2
	TLVSMP3        = types.TLVSMP3
	TLVSMP4        = types.TLVSMP4
	TLVSMPAbort    = types.TLVSMPAbort
	TLVSMP1Q       = types.TLVSMP1Q
	TLVExtraSymKey = types.TLVExtraSymKey

	FlagNone             = types.FlagNone
	FlagIgnoreUnreadable = types.FlagIgnoreUnreadable
)

var GenerateInstanceTag = types.GenerateInstanceTag

// Interface aliases expose domain interfaces from the interfaces
// subpackage.
type (
	Host           = interfaces.Host
	CryptoProvider = interfaces.CryptoProvider
	DataKeyMaterial = interfaces.DataKeyMaterial
	Codec          = interfaces.Codec
	Decoded        = interfaces.Decoded
	AuthContext    = interfaces.AuthContext
	AKEResult      = interfaces.AKEResult
	SmpEngine      = interfaces.SmpEngine
)
