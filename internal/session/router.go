package session

import (
	"sync"

	domain "gotr/internal/domain"
	"gotr/internal/events"
	"gotr/internal/fragment"
)

// Router fans one logical OTR conversation out across the several
// client instances an OTRv3 peer may run concurrently (§ the OTRv3
// instance tag extension). It keeps a master Core for traffic that names
// no remote instance (v2 peers) and for the first remote instance that
// addresses it, whose tag the master then pins, plus one slave Core per
// other remote instance tag discovered since. A slave first seen through
// a DH-Key adopts the master's in-progress handshake via
// AuthContext.Clone so it does not have to restart the AKE the master
// may already be partway through.
type Router struct {
	mu sync.Mutex

	deps     Deps
	id       domain.SessionID
	localTag domain.InstanceTag

	master *Core
	slaves map[domain.InstanceTag]*Core

	// outgoing is the instance tag of the slave new sends and SMP calls
	// delegate to, or ZeroTag to address the master (§4.9 setOutgoingInstance).
	outgoing domain.InstanceTag

	assembler *fragment.Assembler
}

// NewRouter returns a Router with a fresh master Core.
func NewRouter(deps Deps, id domain.SessionID, localTag domain.InstanceTag) *Router {
	if deps.Events == nil {
		deps.Events = events.NewBus()
	}
	return &Router{
		deps: deps, id: id, localTag: localTag,
		master:    NewCore(deps, id, localTag, domain.ZeroTag),
		slaves:    make(map[domain.InstanceTag]*Core),
		assembler: fragment.NewAssembler(),
	}
}

// Receive reassembles, decodes, and routes one inbound transport frame
// to the Core for the instance it names (see coreFor for when a slave
// Core is created and when it clones the master's handshake progress).
func (r *Router) Receive(raw string) (string, error) {
	if !r.deps.Host.GetSessionPolicy(r.id).AllowsAnyVersion() {
		return raw, nil
	}

	if fragment.IsFragment(raw) {
		full, ok, err := r.assembler.Feed(raw, r.localTag)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		raw = full
	}

	decoded, err := r.deps.Codec.Decode(raw)
	if err != nil {
		r.deps.Host.ShowError(r.id, err.Error())
		return "", err
	}

	if !addressedToUs(decoded, r.localTag) {
		r.deps.Host.MessageFromAnotherInstance(r.id)
		return "", nil
	}

	senderTag := senderTagOf(decoded)
	core := r.coreFor(senderTag, decoded.Kind)
	text, err := core.handleDecoded(decoded)

	// A freshly restarted master AKE (responding to a query) must be
	// offered to every already-discovered slave too, so that whichever
	// instance the peer actually completes the handshake from can finish
	// it (§4.6: "clone the master's new AuthContext into every slave").
	if decoded.Kind == domain.KindQuery && core == r.master {
		r.propagateMasterAuth()
	}
	return text, err
}

// propagateMasterAuth hands a fresh copy of the master's current AKE
// progress to every known slave.
func (r *Router) propagateMasterAuth() {
	clone := r.master.cloneAuth()
	for _, c := range r.allCores()[1:] {
		c.adoptAuth(clone.Clone())
	}
}

func senderTagOf(decoded domain.Decoded) domain.InstanceTag {
	switch {
	case decoded.Data != nil:
		return decoded.Data.T.SenderTag
	case decoded.AKE != nil:
		return decoded.AKE.SenderTag
	default:
		return domain.ZeroTag
	}
}

func receiverTagOf(decoded domain.Decoded) domain.InstanceTag {
	switch {
	case decoded.Data != nil:
		return decoded.Data.T.ReceiverTag
	case decoded.AKE != nil:
		return decoded.AKE.ReceiverTag
	default:
		return domain.ZeroTag
	}
}

// addressedToUs reports whether an encoded message names us as its
// receiver instance, per §4.2 step 5's first bullet. Non-encoded kinds
// (query, error, plaintext) carry no instance tag and always pass. A
// DH-Commit addressed to ZeroTag is the peer's first contact, before it
// has learned our tag, and always passes too.
func addressedToUs(decoded domain.Decoded, localTag domain.InstanceTag) bool {
	if decoded.AKE == nil && decoded.Data == nil {
		return true
	}
	receiverTag := receiverTagOf(decoded)
	if receiverTag == localTag {
		return true
	}
	return decoded.Kind == domain.KindDHCommit && receiverTag == domain.ZeroTag
}

// coreFor returns the Core that should handle a message from senderTag.
// The master pins the first nonzero sender tag it sees and keeps handling
// that instance; any other instance gets a slave, created on first
// sighting. A fresh slave only adopts the
// master's in-flight AuthContext when the triggering message is a
// DH-Key (§4.2 step 5, SessionImpl.java's MESSAGE_DHKEY gate); any other
// first-sighted kind (typically a DATA message, §8 scenario 5) gets a
// slave with its own fresh AuthContext instead.
func (r *Router) coreFor(senderTag domain.InstanceTag, kind domain.MessageKind) *Core {
	if senderTag == domain.ZeroTag {
		return r.master
	}

	r.mu.Lock()
	if c, ok := r.slaves[senderTag]; ok {
		r.mu.Unlock()
		return c
	}
	m := r.master
	m.mu.Lock()
	if m.remoteTag == domain.ZeroTag {
		m.remoteTag = senderTag
	}
	pinned := m.remoteTag == senderTag
	m.mu.Unlock()
	if pinned {
		r.mu.Unlock()
		return m
	}

	c := NewCore(r.deps, r.id, r.localTag, senderTag)
	if kind == domain.KindDHKey {
		c.adoptAuth(r.master.cloneAuth())
	}
	r.slaves[senderTag] = c
	r.mu.Unlock()

	r.deps.Host.MultipleInstancesDetected(r.id)
	r.deps.Events.Publish(domain.MultipleInstancesDetectedEvent{SessionID: r.id, Tag: senderTag})
	return c
}

// Send delivers text on the currently selected target instance (the
// master, unless setOutgoingInstance has pinned a discovered slave).
func (r *Router) Send(text string) error { return r.target().Send(text) }

func (r *Router) allCores() []*Core {
	r.mu.Lock()
	defer r.mu.Unlock()
	cores := make([]*Core, 0, 1+len(r.slaves))
	cores = append(cores, r.master)
	for _, c := range r.slaves {
		cores = append(cores, c)
	}
	return cores
}

// Master returns the Router's master Core, the one that handles untagged
// traffic and the first remote instance tag it pins.
func (r *Router) Master() *Core { return r.master }

// target returns the Core that send-like and SMP operations currently
// delegate to: the pinned slave if setOutgoingInstance selected one and
// it still exists, the master otherwise (§4.5, §4.9).
func (r *Router) target() *Core {
	r.mu.Lock()
	tag := r.outgoing
	c, ok := r.slaves[tag]
	r.mu.Unlock()
	if tag != domain.ZeroTag && ok {
		return c
	}
	return r.master
}

// SetOutgoingInstance pins future delegated operations to the slave
// addressed by tag, or back to the master if tag is ZeroTag or the
// master's pinned remote tag. Reports false (and leaves selection
// unchanged) if tag names neither.
func (r *Router) SetOutgoingInstance(tag domain.InstanceTag) bool {
	r.master.mu.Lock()
	masterTag := r.master.remoteTag
	r.master.mu.Unlock()
	if tag == domain.ZeroTag || tag == masterTag {
		r.mu.Lock()
		r.outgoing = domain.ZeroTag
		r.mu.Unlock()
		r.deps.Events.Publish(domain.OutgoingSessionChangedEvent{SessionID: r.id, Tag: domain.ZeroTag})
		return true
	}
	r.mu.Lock()
	if _, ok := r.slaves[tag]; !ok {
		r.mu.Unlock()
		return false
	}
	r.outgoing = tag
	r.mu.Unlock()
	r.deps.Events.Publish(domain.OutgoingSessionChangedEvent{SessionID: r.id, Tag: tag})
	return true
}

// OutgoingInstance returns the instance tag operations currently
// delegate to (ZeroTag for the master).
func (r *Router) OutgoingInstance() domain.InstanceTag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outgoing
}

// Instances returns the master plus every discovered slave.
func (r *Router) Instances() []*Core { return r.allCores() }

// StatusFor returns the slave's status if tag names one, else the
// master's.
func (r *Router) StatusFor(tag domain.InstanceTag) domain.SessionStatus {
	return r.coreForTagReadOnly(tag).Status()
}

// RemotePublicKeyFor returns the slave's negotiated remote long-term
// public key if tag names one, else the master's.
func (r *Router) RemotePublicKeyFor(tag domain.InstanceTag) [32]byte {
	return r.coreForTagReadOnly(tag).RemotePublicKey()
}

// RespondSMPFor answers an SMP exchange on the slave named by tag,
// falling back to the master if tag names no known slave (§4.8/§6.2's
// respondSmp(instanceTag, question, secret)).
func (r *Router) RespondSMPFor(tag domain.InstanceTag, question string, secret []byte) error {
	return r.coreForTagReadOnly(tag).RespondSMP(question, secret)
}

// coreForTagReadOnly looks up an existing slave by tag without creating
// one, falling back to the master; used by read-only accessors that must
// never spawn state as a side effect of a lookup.
func (r *Router) coreForTagReadOnly(tag domain.InstanceTag) *Core {
	r.mu.Lock()
	c, ok := r.slaves[tag]
	r.mu.Unlock()
	if ok {
		return c
	}
	return r.master
}

// Subscribe returns a channel that receives statusChanged,
// multipleInstancesDetected, and outgoingSessionChanged events for
// this conversation and every instance discovered within it (§6.2).
func (r *Router) Subscribe() <-chan events.Event { return r.deps.Events.Subscribe() }

// Unsubscribe stops ch from receiving further events.
func (r *Router) Unsubscribe(ch <-chan events.Event) { r.deps.Events.Unsubscribe(ch) }
