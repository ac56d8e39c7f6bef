package session

import (
	domain "gotr/internal/domain"
	"gotr/internal/events"
)

// Facade is the single object a Host-side application holds per
// conversation: it wraps a Router and exposes the operations a user
// interface or transport adapter needs, without exposing Core or Router
// internals.
type Facade struct {
	router *Router
}

// NewFacade wires deps into a fresh conversation for id, identified
// locally by localTag.
func NewFacade(deps Deps, id domain.SessionID, localTag domain.InstanceTag) *Facade {
	return &Facade{router: NewRouter(deps, id, localTag)}
}

// Send delivers text on the currently selected outgoing instance (the
// master, unless SetOutgoingInstance pinned a discovered slave).
func (f *Facade) Send(text string) error { return f.router.Send(text) }

// Receive processes one inbound transport frame, returning any
// plaintext the host should display.
func (f *Facade) Receive(raw string) (string, error) { return f.router.Receive(raw) }

// StartAKE explicitly begins a handshake on the master instance, for
// hosts that want to offer encryption without waiting for a query
// message or whitespace tag from the peer.
func (f *Facade) StartAKE() { f.router.Master().startAKE() }

// StartSession is StartAKE under the name spec.md's application
// interface uses; a no-op once Encrypted.
func (f *Facade) StartSession() { f.StartAKE() }

// EndSession ends the encrypted session on every known instance,
// returning each to Plaintext (§4.1 endSession).
func (f *Facade) EndSession() error { return f.Disconnect() }

// RefreshSession ends and restarts the handshake on every known
// instance (§4.1 refreshSession = endSession;startSession).
func (f *Facade) RefreshSession() error {
	for _, c := range f.router.allCores() {
		if err := c.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

// IsEncrypted reports whether the currently selected outgoing instance
// is Encrypted.
func (f *Facade) IsEncrypted() bool { return f.router.target().IsEncrypted() }

// Disconnect ends the encrypted session on every known instance.
func (f *Facade) Disconnect() error {
	for _, c := range f.router.allCores() {
		if err := c.Disconnect(); err != nil {
			return err
		}
	}
	return nil
}

// StartSMP begins an SMP exchange on the currently selected outgoing
// instance.
func (f *Facade) StartSMP(question string, secret []byte) error {
	return f.router.target().StartSMP(question, secret)
}

// RespondSMP answers an SMP exchange on the currently selected outgoing
// instance.
func (f *Facade) RespondSMP(question string, secret []byte) error {
	return f.router.target().RespondSMP(question, secret)
}

// RespondSMPForInstance answers an SMP exchange on the slave addressed
// by tag, falling back to the master if tag names no known slave, without
// disturbing the currently selected outgoing instance (§4.8/§6.2's
// respondSmp(instanceTag, question, secret)).
func (f *Facade) RespondSMPForInstance(tag domain.InstanceTag, question string, secret []byte) error {
	return f.router.RespondSMPFor(tag, question, secret)
}

// AbortSMP cancels any in-progress SMP exchange on the currently
// selected outgoing instance.
func (f *Facade) AbortSMP() error { return f.router.target().AbortSMP() }

// SMPInProgress reports whether the currently selected outgoing instance
// has an SMP exchange underway.
func (f *Facade) SMPInProgress() bool { return f.router.target().SMPInProgress() }

// SetOutgoingInstance pins future Send/SMP calls to the slave addressed
// by tag, or back to the master if tag is domain.ZeroTag.
func (f *Facade) SetOutgoingInstance(tag domain.InstanceTag) bool {
	return f.router.SetOutgoingInstance(tag)
}

// OutgoingInstance returns the instance tag Send/SMP calls currently
// delegate to (domain.ZeroTag for the master).
func (f *Facade) OutgoingInstance() domain.InstanceTag { return f.router.OutgoingInstance() }

// Instances returns the master plus every instance tag discovered so far.
func (f *Facade) Instances() []domain.InstanceTag {
	cores := f.router.allCores()
	tags := make([]domain.InstanceTag, len(cores))
	for i, c := range cores {
		tags[i] = c.remoteTag
	}
	return tags
}

// SessionStatus returns the slave's status if tag names one, else the
// master's.
func (f *Facade) SessionStatus(tag domain.InstanceTag) domain.SessionStatus {
	return f.router.StatusFor(tag)
}

// RemotePublicKey returns the negotiated remote long-term public key
// for the slave named by tag, or the master's if tag names no slave.
func (f *Facade) RemotePublicKey(tag domain.InstanceTag) [32]byte {
	return f.router.RemotePublicKeyFor(tag)
}

// Subscribe returns a channel receiving statusChanged,
// multipleInstancesDetected, and outgoingSessionChanged events for this
// conversation (§6.2 addListener). Call Unsubscribe when done with it.
func (f *Facade) Subscribe() <-chan events.Event { return f.router.Subscribe() }

// Unsubscribe stops ch from receiving further events (§6.2 removeListener).
func (f *Facade) Unsubscribe(ch <-chan events.Event) { f.router.Unsubscribe(ch) }
