package ake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gotr/internal/ake"
	"gotr/internal/crypto"
	domaintypes "gotr/internal/domain/types"
)

func TestContext_FullHandshakeAgreesOnSecret(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()

	aliceKP, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)
	bobKP, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)

	alice := ake.New(cp, 3, 100, 200, aliceKP)
	bob := ake.New(cp, 3, 200, 100, bobKP)

	commit, err := alice.StartAKE()
	require.NoError(err)

	dhKey, err := bob.HandleMessage(*commit)
	require.NoError(err, "bob onDHCommit")

	revealSig, err := alice.HandleMessage(*dhKey)
	require.NoError(err, "alice onDHKey")

	sig, err := bob.HandleMessage(*revealSig)
	require.NoError(err, "bob onRevealSignature")
	require.True(bob.IsSecure(), "bob should be secure after processing Reveal-Signature")

	reply, err := alice.HandleMessage(*sig)
	require.NoError(err, "alice onSignature")
	require.Nil(reply, "expected no reply to Signature")
	require.True(alice.IsSecure(), "alice should be secure after processing Signature")

	aliceResult, err := alice.Result()
	require.NoError(err)
	bobResult, err := bob.Result()
	require.NoError(err)

	require.Zero(aliceResult.SharedSecret.Cmp(bobResult.SharedSecret), "shared secrets disagree")
	require.Equal(bobKP.Public, aliceResult.RemoteLongTermPublic, "alice did not authenticate bob's long-term key")
	require.Equal(aliceKP.Public, bobResult.RemoteLongTermPublic, "bob did not authenticate alice's long-term key")
}

func TestContext_TamperedSignatureRejected(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceKP, _ := crypto.GenerateLongTermKeyPair()
	bobKP, _ := crypto.GenerateLongTermKeyPair()

	alice := ake.New(cp, 3, 1, 2, aliceKP)
	bob := ake.New(cp, 3, 2, 1, bobKP)

	commit, _ := alice.StartAKE()
	dhKey, _ := bob.HandleMessage(*commit)
	revealSig, _ := alice.HandleMessage(*dhKey)

	tampered := *revealSig
	tampered.Body = append([]byte{}, revealSig.Body...)
	tampered.Body[len(tampered.Body)-1] ^= 0xFF

	_, err := bob.HandleMessage(tampered)
	require.Error(err, "expected error on tampered Reveal-Signature")
}

func TestContext_ResetClearsState(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	kp, _ := crypto.GenerateLongTermKeyPair()
	c := ake.New(cp, 3, 1, domaintypes.ZeroTag, kp)
	_, err := c.StartAKE()
	require.NoError(err)
	c.Reset()
	require.False(c.IsSecure(), "Reset context should not be secure")
}
