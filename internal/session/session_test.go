package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gotr/internal/ake"
	"gotr/internal/codec"
	"gotr/internal/crypto"
	domain "gotr/internal/domain"
	"gotr/internal/events"
	"gotr/internal/session"
	"gotr/internal/smp"
)

type fakeHost struct {
	policy   domain.Policy
	longTerm domain.LongTermKeyPair
	deliver  func(frame string)

	unreadable int
	errors     []string
	alerts     []string
}

func (h *fakeHost) InjectMessage(id domain.SessionID, frame string) error {
	h.deliver(frame)
	return nil
}
func (h *fakeHost) GetSessionPolicy(domain.SessionID) domain.Policy { return h.policy }
func (h *fakeHost) GetLocalKeyPair(domain.SessionID) (domain.LongTermKeyPair, error) {
	return h.longTerm, nil
}
func (h *fakeHost) GetMaxFragmentSize(domain.SessionID) int                { return 0 }
func (h *fakeHost) ShowError(_ domain.SessionID, text string)              { h.errors = append(h.errors, text) }
func (h *fakeHost) ShowAlert(_ domain.SessionID, text string)              { h.alerts = append(h.alerts, text) }
func (h *fakeHost) UnencryptedMessageReceived(domain.SessionID, string)    {}
func (h *fakeHost) UnreadableMessageReceived(domain.SessionID)             { h.unreadable++ }
func (h *fakeHost) FinishedSessionMessage(domain.SessionID, string)        {}
func (h *fakeHost) RequireEncryptedMessage(domain.SessionID, string)       {}
func (h *fakeHost) MessageFromAnotherInstance(domain.SessionID)            {}
func (h *fakeHost) MessageFromAnotherInstanceReceived(domain.SessionID)    {}
func (h *fakeHost) MultipleInstancesDetected(domain.SessionID)             {}
func (h *fakeHost) GetReplyForUnreadableMessage(domain.SessionID) string   { return "" }
func (h *fakeHost) GetFallbackMessage(domain.SessionID) string             { return "" }

var _ domain.Host = (*fakeHost)(nil)

type pair struct {
	alice, bob             *session.Facade
	aliceHost, bobHost     *fakeHost
	aliceRecv, bobRecv     []string
}

func newPair(t *testing.T) *pair {
	t.Helper()
	require := require.New(t)
	cp := crypto.New()

	aliceLT, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)
	bobLT, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)

	p := &pair{
		aliceHost: &fakeHost{policy: domain.Policy{AllowV3: true, SendWhitespaceTag: true}, longTerm: aliceLT},
		bobHost:   &fakeHost{policy: domain.Policy{AllowV3: true, SendWhitespaceTag: true}, longTerm: bobLT},
	}

	aliceDeps := session.Deps{
		Host: p.aliceHost, Crypto: cp, Codec: codec.New(),
		NewAuth: func(l, r domain.InstanceTag) domain.AuthContext { return ake.New(cp, 3, l, r, aliceLT) },
		NewSMP:  func() domain.SmpEngine { return smp.New(cp) },
	}
	bobDeps := session.Deps{
		Host: p.bobHost, Crypto: cp, Codec: codec.New(),
		NewAuth: func(l, r domain.InstanceTag) domain.AuthContext { return ake.New(cp, 3, l, r, bobLT) },
		NewSMP:  func() domain.SmpEngine { return smp.New(cp) },
	}

	aliceTag, err := domain.GenerateInstanceTag()
	require.NoError(err)
	bobTag, err := domain.GenerateInstanceTag()
	require.NoError(err)

	id := domain.SessionID{Account: "alice", Peer: "bob", Protocol: "otr"}
	p.alice = session.NewFacade(aliceDeps, id, aliceTag)
	p.bob = session.NewFacade(bobDeps, id, bobTag)

	p.aliceHost.deliver = func(frame string) {
		if text, _ := p.bob.Receive(frame); text != "" {
			p.bobRecv = append(p.bobRecv, text)
		}
	}
	p.bobHost.deliver = func(frame string) {
		if text, _ := p.alice.Receive(frame); text != "" {
			p.aliceRecv = append(p.aliceRecv, text)
		}
	}
	return p
}

func TestSession_HandshakeThenMessageRoundTrip(t *testing.T) {
	require := require.New(t)
	p := newPair(t)

	p.alice.StartAKE()
	require.True(p.alice.IsEncrypted(), "alice should be encrypted after handshake")
	require.True(p.bob.IsEncrypted(), "bob should be encrypted after handshake")

	require.NoError(p.alice.Send("hello bob"))
	require.Equal([]string{"hello bob"}, p.bobRecv)

	require.NoError(p.bob.Send("hi alice"))
	require.Equal([]string{"hi alice"}, p.aliceRecv)

	require.Zero(p.aliceHost.unreadable)
	require.Zero(p.bobHost.unreadable)
}

func TestSession_SMPMatchingSecretCompletes(t *testing.T) {
	require := require.New(t)
	p := newPair(t)
	p.alice.StartAKE()

	secret := []byte("shared secret")
	require.NoError(p.alice.StartSMP("what's our word?", secret))
	require.True(p.bob.SMPInProgress(), "bob should see an in-progress SMP exchange")
	require.NoError(p.bob.RespondSMP("what's our word?", secret))

	require.False(p.alice.SMPInProgress())
	require.False(p.bob.SMPInProgress())
}

// TestSession_DisconnectTransitionsAsymmetrically covers scenario 4: the
// side that calls EndSession returns to Plaintext and can send again
// immediately, while the peer that receives the DISCONNECTED TLV lands
// in Finished and drops its next send.
func TestSession_DisconnectTransitionsAsymmetrically(t *testing.T) {
	require := require.New(t)
	p := newPair(t)
	p.alice.StartAKE()

	require.NoError(p.alice.EndSession())
	require.False(p.alice.IsEncrypted(), "alice should no longer be encrypted after ending the session")
	require.Equal(domain.StatusPlaintext, p.alice.SessionStatus(domain.ZeroTag))
	require.NoError(p.alice.Send("are you there?"), "alice sending in Plaintext should not error")

	require.Equal(domain.StatusFinished, p.bob.SessionStatus(domain.ZeroTag))
	require.NoError(p.bob.Send("anything"), "Send in Finished should not error")
}

// drainForEncrypted reads every event currently buffered on ch, reporting
// whether any of them was a StatusChangedEvent reporting Encrypted.
func drainForEncrypted(ch <-chan events.Event) bool {
	for {
		select {
		case ev := <-ch:
			if sc, ok := ev.(domain.StatusChangedEvent); ok && sc.New == domain.StatusEncrypted {
				return true
			}
		default:
			return false
		}
	}
}

func TestSession_EventBusReportsStatusChanges(t *testing.T) {
	p := newPair(t)
	ch := p.alice.Subscribe()
	defer p.alice.Unsubscribe(ch)

	p.alice.StartAKE()

	require.True(t, drainForEncrypted(ch), "expected a StatusChangedEvent reporting Encrypted, channel empty")
}
