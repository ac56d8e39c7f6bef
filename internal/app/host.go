package app

import (
	"context"
	"fmt"

	domain "gotr/internal/domain"
	"gotr/internal/log"
	"gotr/internal/relay"
	"gotr/internal/store"
)

// Host is the default domain.Host: it carries OTR wire frames over a
// relay.Client, reads the long-term identity from a store.IdentityStore
// unlocked with a passphrase held in memory for the process lifetime,
// and logs every notification callback instead of rendering a UI.
type Host struct {
	relay      *relay.Client
	identity   *store.IdentityStore
	passphrase string
	policy     domain.Policy
	maxFrag    int
	fallback   string
	logger     interface {
		Infof(string, ...interface{})
		Warningf(string, ...interface{})
		Errorf(string, ...interface{})
	}
}

// NewHost builds a Host. passphrase unlocks identity on demand; it is
// never written to disk by Host itself.
func NewHost(r *relay.Client, identity *store.IdentityStore, passphrase string, policy domain.Policy, maxFrag int, backend *log.Backend) *Host {
	return &Host{
		relay:      r,
		identity:   identity,
		passphrase: passphrase,
		policy:     policy,
		maxFrag:    maxFrag,
		fallback:   "This message was encrypted with OTR, which your client does not support.",
		logger:     backend.GetLogger("host"),
	}
}

// InjectMessage delivers frame to the peer over the relay, keyed by the
// SessionID's Account/Peer pair.
func (h *Host) InjectMessage(id domain.SessionID, frame string) error {
	return h.relay.Send(context.Background(), relay.Frame{
		From: id.Account,
		To:   id.Peer,
		Body: frame,
	})
}

// GetSessionPolicy returns the policy this process was configured with.
// Every SessionID shares it; there is no per-peer override store.
func (h *Host) GetSessionPolicy(id domain.SessionID) domain.Policy { return h.policy }

// GetLocalKeyPair unlocks the identity keystore, generating a fresh
// identity on first use.
func (h *Host) GetLocalKeyPair(id domain.SessionID) (domain.LongTermKeyPair, error) {
	return store.LoadOrCreate(h.identity, h.passphrase)
}

// GetMaxFragmentSize returns the configured transport MTU, or 0 (no
// fragmentation) if none was configured.
func (h *Host) GetMaxFragmentSize(id domain.SessionID) int { return h.maxFrag }

// ShowError logs a protocol-level error.
func (h *Host) ShowError(id domain.SessionID, text string) {
	h.logger.Errorf("%s: %s", id, text)
}

// ShowAlert logs an informational notice.
func (h *Host) ShowAlert(id domain.SessionID, text string) {
	h.logger.Infof("%s: %s", id, text)
}

// UnencryptedMessageReceived logs that cleartext arrived over a session
// that is, or was, encrypted.
func (h *Host) UnencryptedMessageReceived(id domain.SessionID, text string) {
	h.logger.Warningf("%s: unencrypted message received: %s", id, text)
}

// UnreadableMessageReceived logs that an inbound data message failed to
// authenticate or decrypt.
func (h *Host) UnreadableMessageReceived(id domain.SessionID) {
	h.logger.Warningf("%s: unreadable message received", id)
}

// FinishedSessionMessage logs that a send was dropped because the
// session has finished.
func (h *Host) FinishedSessionMessage(id domain.SessionID, text string) {
	h.logger.Warningf("%s: session finished, message not sent: %s", id, text)
}

// RequireEncryptedMessage logs that a send was withheld pending AKE
// completion because policy requires encryption.
func (h *Host) RequireEncryptedMessage(id domain.SessionID, text string) {
	h.logger.Warningf("%s: encryption required, message withheld: %s", id, text)
}

// MessageFromAnotherInstance logs that an inbound message addressed an
// instance tag that is not ours.
func (h *Host) MessageFromAnotherInstance(id domain.SessionID) {
	h.logger.Infof("%s: message from another instance ignored", id)
}

// MessageFromAnotherInstanceReceived logs that a fragment named a
// receiver tag we are not tracking.
func (h *Host) MessageFromAnotherInstanceReceived(id domain.SessionID) {
	h.logger.Infof("%s: fragment for another instance ignored", id)
}

// MultipleInstancesDetected logs that a new remote instance was
// discovered.
func (h *Host) MultipleInstancesDetected(id domain.SessionID) {
	h.logger.Infof("%s: peer is running multiple instances", id)
}

// GetReplyForUnreadableMessage returns the text echoed back to the
// sender of a message that failed authentication.
func (h *Host) GetReplyForUnreadableMessage(id domain.SessionID) string {
	return fmt.Sprintf("The message from %s could not be decrypted.", id.Account)
}

// GetFallbackMessage returns the text appended to outbound query
// messages for clients that do not understand OTR.
func (h *Host) GetFallbackMessage(id domain.SessionID) string { return h.fallback }
