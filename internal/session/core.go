package session

import (
	"errors"
	"sync"

	domain "gotr/internal/domain"
	"gotr/internal/events"
	"gotr/internal/fragment"
	"gotr/internal/keys"
)

// publishStatusChanged notifies bus iff old != newStatus (§8: "Status
// events fire iff the status field changes value").
func publishStatusChanged(bus *events.Bus, id domain.SessionID, tag domain.InstanceTag, old, newStatus domain.SessionStatus) {
	if old == newStatus {
		return
	}
	bus.Publish(domain.StatusChangedEvent{SessionID: id, Tag: tag, Old: old, New: newStatus})
}

// ErrNotEncrypted is returned by operations that require an Encrypted
// session (sending TLV-only control traffic, SMP) when the session has
// not yet completed its AKE.
var ErrNotEncrypted = errors.New("session: not encrypted")

// Core is one OTR conversation with a single remote instance: the
// Plaintext/Encrypted/Finished state machine, its AuthContext, its
// SmpEngine, and, once Encrypted, its key matrix. A Router owns one Core
// per discovered remote instance tag plus one "master" Core for traffic
// that does not yet name an instance.
type Core struct {
	mu sync.Mutex

	deps Deps
	id   domain.SessionID

	localTag  domain.InstanceTag
	remoteTag domain.InstanceTag
	version   int

	status domain.SessionStatus
	offer  domain.OfferStatus

	auth   domain.AuthContext
	smp    domain.SmpEngine
	matrix *keys.Matrix

	remoteLongTermPublic [32]byte

	assembler *fragment.Assembler
}

// NewCore returns a fresh Plaintext Core for id, addressed from localTag
// to remoteTag (remoteTag may be domain.ZeroTag for the master core).
func NewCore(deps Deps, id domain.SessionID, localTag, remoteTag domain.InstanceTag) *Core {
	return &Core{
		deps: deps, id: id,
		localTag: localTag, remoteTag: remoteTag,
		status:    domain.StatusPlaintext,
		offer:     domain.OfferIdle,
		auth:      deps.NewAuth(localTag, remoteTag),
		smp:       deps.NewSMP(),
		assembler: fragment.NewAssembler(),
	}
}

// Status reports the current session state.
func (c *Core) Status() domain.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsEncrypted reports whether the session has a live key matrix.
func (c *Core) IsEncrypted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == domain.StatusEncrypted
}

// finishAKE installs the negotiated key material and moves the session
// to Encrypted. Caller holds c.mu; the status-changed event is published
// by the caller after releasing it.
func (c *Core) finishAKE(result domain.AKEResult) (domain.SessionStatus, error) {
	matrix, err := keys.NewMatrix(c.deps.Crypto, result.LocalDH, result.RemotePublic)
	if err != nil {
		return c.status, err
	}
	old := c.status
	c.matrix = matrix
	c.version = result.Version
	c.status = domain.StatusEncrypted
	c.offer = domain.OfferAccepted
	c.remoteLongTermPublic = result.RemoteLongTermPublic
	return old, nil
}

// RemotePublicKey returns the peer's long-term public key negotiated by
// the last completed AKE. Zero-valued until Encrypted at least once.
func (c *Core) RemotePublicKey() [32]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteLongTermPublic
}

// cloneAuth returns an independent copy of this Core's current AKE
// progress, used to hand off in-flight handshake state to a sibling Core.
func (c *Core) cloneAuth() domain.AuthContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth.Clone()
}

// adoptAuth replaces this Core's AuthContext, used when a slave adopts
// the master's handshake state (on first contact through a DH-Key, or when the master
// restarts the AKE in response to a fresh query).
func (c *Core) adoptAuth(a domain.AuthContext) {
	c.mu.Lock()
	c.auth = a
	c.mu.Unlock()
}

// Disconnect ends the local side of an Encrypted session: it sends one
// data message carrying a DISCONNECTED TLV and returns to Plaintext,
// discarding all negotiated key material and AKE/SMP progress so no
// state from before this call is observable after a later startAKE
// (§4.1: "Encrypted/Finished -> Plaintext: local endSession"; the peer
// that receives the TLV instead becomes Finished, in handleTLVs). From
// Finished it returns to Plaintext without sending anything; in
// Plaintext it is a no-op.
func (c *Core) Disconnect() error {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()
	if status == domain.StatusPlaintext {
		return nil
	}

	if status == domain.StatusEncrypted {
		if err := c.sendDataMessage("", []domain.TLV{{Type: domain.TLVDisconnect}}); err != nil {
			return err
		}
	}

	c.mu.Lock()
	old := c.status
	c.status = domain.StatusPlaintext
	c.offer = domain.OfferIdle
	c.auth = c.deps.NewAuth(c.localTag, c.remoteTag)
	c.smp = c.deps.NewSMP()
	c.matrix = nil
	c.remoteLongTermPublic = [32]byte{}
	bus, id, tag := c.deps.Events, c.id, c.remoteTag
	c.mu.Unlock()

	publishStatusChanged(bus, id, tag, old, domain.StatusPlaintext)
	return nil
}

// Refresh ends any Encrypted session (per Disconnect) and immediately
// starts a fresh AKE, the composition endSession;startSession (§4.1
// refreshSession). In Plaintext or Finished it is equivalent to
// startAKE alone.
func (c *Core) Refresh() error {
	if err := c.Disconnect(); err != nil {
		return err
	}
	c.startAKE()
	return nil
}
