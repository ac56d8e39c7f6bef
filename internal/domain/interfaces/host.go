package interfaces

import domaintypes "gotr/internal/domain/types"

// Host is the set of operations a SessionCore invokes on its embedding
// application. The core never touches a network socket, a UI, or
// long-term key storage directly: all of that is the host's concern.
type Host interface {
	// InjectMessage hands a transport frame to the host for delivery to
	// the peer. Best-effort: the host is responsible for any blocking.
	InjectMessage(id domaintypes.SessionID, frame string) error

	// GetSessionPolicy returns the policy in effect for id, read on demand.
	GetSessionPolicy(id domaintypes.SessionID) domaintypes.Policy

	// GetLocalKeyPair returns the long-term signing identity used by
	// AuthContext to authenticate the AKE transcript.
	GetLocalKeyPair(id domaintypes.SessionID) (domaintypes.LongTermKeyPair, error)

	// GetMaxFragmentSize returns the largest frame the transport can carry
	// for id; the Fragmenter honors it as an MTU.
	GetMaxFragmentSize(id domaintypes.SessionID) int

	// ShowError surfaces a protocol-level error string to the user.
	ShowError(id domaintypes.SessionID, text string)
	// ShowAlert surfaces an informational notice to the user.
	ShowAlert(id domaintypes.SessionID, text string)

	// UnencryptedMessageReceived notifies that cleartext arrived over a
	// session that is (or was) encrypted, or that required encryption.
	UnencryptedMessageReceived(id domaintypes.SessionID, text string)
	// UnreadableMessageReceived notifies that an inbound data message
	// could not be authenticated or decrypted.
	UnreadableMessageReceived(id domaintypes.SessionID)
	// FinishedSessionMessage notifies that an outbound send was dropped
	// because the session is Finished.
	FinishedSessionMessage(id domaintypes.SessionID, text string)
	// RequireEncryptedMessage notifies that a send was withheld pending AKE
	// completion because policy requires encryption.
	RequireEncryptedMessage(id domaintypes.SessionID, text string)

	// MessageFromAnotherInstance notifies that an inbound message
	// addressed a receiver instance tag that is not ours.
	MessageFromAnotherInstance(id domaintypes.SessionID)
	// MessageFromAnotherInstanceReceived notifies that a fragment's
	// receiver tag belongs to an instance the host is not tracking.
	MessageFromAnotherInstanceReceived(id domaintypes.SessionID)
	// MultipleInstancesDetected notifies that a new remote instance of the
	// peer was observed (a slave was created).
	MultipleInstancesDetected(id domaintypes.SessionID)

	// GetReplyForUnreadableMessage returns the text to echo back to the
	// sender of a message that failed authentication.
	GetReplyForUnreadableMessage(id domaintypes.SessionID) string
	// GetFallbackMessage returns text appended to outbound query messages
	// for peers whose client does not understand OTR.
	GetFallbackMessage(id domaintypes.SessionID) string
}
