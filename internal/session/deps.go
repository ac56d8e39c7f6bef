package session

import (
	domain "gotr/internal/domain"
	"gotr/internal/events"
)

// Deps bundles the collaborators a Core or Router needs but never
// constructs itself: the embedding host, the wire codec and crypto
// primitives, and factories for the per-session AuthContext/SmpEngine
// (each session, and each discovered instance, gets its own).
type Deps struct {
	Host   domain.Host
	Crypto domain.CryptoProvider
	Codec  domain.Codec

	NewAuth func(localTag, remoteTag domain.InstanceTag) domain.AuthContext
	NewSMP  func() domain.SmpEngine

	// Events is the optional bus statusChanged / multipleInstancesDetected
	// / outgoingSessionChanged notifications publish to. NewRouter fills
	// in a fresh Bus when left nil.
	Events *events.Bus
}
