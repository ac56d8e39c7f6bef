package keys_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"gotr/internal/crypto"
	"gotr/internal/keys"
)

func TestMatrix_SendRecvAgree(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()

	aliceDH, err := cp.GenerateDHKeyPair()
	require.NoError(err)
	bobDH, err := cp.GenerateDHKeyPair()
	require.NoError(err)

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	bob, err := keys.NewMatrix(cp, bobDH, aliceDH.Public)
	require.NoError(err)

	mat, counter, localID, remoteID, err := alice.SendKeys()
	require.NoError(err)

	recvMat, err := bob.RecvKeys(localID, remoteID, counter)
	require.NoError(err)

	require.True(bytes.Equal(mat.SendAES, recvMat.RecvAES), "send/recv AES key mismatch")
	require.True(bytes.Equal(mat.SendMAC, recvMat.RecvMAC), "send/recv MAC key mismatch")
}

func TestMatrix_RecvRejectsReplayedCounter(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceDH, _ := cp.GenerateDHKeyPair()
	bobDH, _ := cp.GenerateDHKeyPair()

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	bob, err := keys.NewMatrix(cp, bobDH, aliceDH.Public)
	require.NoError(err)

	_, counter, localID, remoteID, err := alice.SendKeys()
	require.NoError(err)
	_, err = bob.RecvKeys(localID, remoteID, counter)
	require.NoError(err, "first RecvKeys")
	_, err = bob.RecvKeys(localID, remoteID, counter)
	require.Error(err, "expected replay rejection on repeated counter")
}

func TestMatrix_RatchetLocalAdvancesKeyID(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceDH, _ := cp.GenerateDHKeyPair()
	bobDH, _ := cp.GenerateDHKeyPair()

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	before := alice.LocalKeyID()
	_, err = alice.RatchetLocal()
	require.NoError(err)
	require.Equal(before+1, alice.LocalKeyID())
}

func TestMatrix_RatchetRemoteAdvancesKeyID(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceDH, _ := cp.GenerateDHKeyPair()
	bobDH, _ := cp.GenerateDHKeyPair()
	otherDH, _ := cp.GenerateDHKeyPair()

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	before := alice.RemoteKeyID()
	alice.RatchetRemote(otherDH.Public)
	require.Equal(before+1, alice.RemoteKeyID())
}

// TestMatrix_NewMatrixSeedsLookaheadLocalKey pins §4.3's initial
// population: Current's local slot must start as a freshly generated
// DH pair at id 2, distinct from the AKE-negotiated pair at id 1 that
// seeds Previous, rather than a copy of it.
func TestMatrix_NewMatrixSeedsLookaheadLocalKey(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceDH, _ := cp.GenerateDHKeyPair()
	bobDH, _ := cp.GenerateDHKeyPair()

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	require.Equal(uint32(2), alice.LocalKeyID(), "Current local slot should start at id 2")
	require.NotEqual(aliceDH.Public, alice.LocalPublic(), "Current local slot should be a freshly generated pair, not the AKE key")
}

// TestMatrix_SendKeysUsePreviousLocalAfterRatchet pins §4.3's encryption
// cell choice: SendKeys must keep using the *older* local key paired
// with the newer remote key, so a peer that has adopted our next DH key
// but has not yet seen our local ratchet can still open the message.
func TestMatrix_SendKeysUsePreviousLocalAfterRatchet(t *testing.T) {
	require := require.New(t)
	cp := crypto.New()
	aliceDH, _ := cp.GenerateDHKeyPair()
	bobDH, _ := cp.GenerateDHKeyPair()

	alice, err := keys.NewMatrix(cp, aliceDH, bobDH.Public)
	require.NoError(err)
	bob, err := keys.NewMatrix(cp, bobDH, aliceDH.Public)
	require.NoError(err)

	// bob learns alice's next key (as from a NextDH field) before alice
	// ratchets past it.
	bob.RatchetRemote(alice.LocalPublic())

	preRatchetLocalID := alice.LocalKeyID()
	_, err = alice.RatchetLocal()
	require.NoError(err)
	require.NotEqual(preRatchetLocalID, alice.LocalKeyID())

	_, counter, localID, remoteID, err := alice.SendKeys()
	require.NoError(err)
	require.Equal(preRatchetLocalID, localID, "SendKeys should still stamp the pre-ratchet local key id")

	_, err = bob.RecvKeys(localID, remoteID, counter)
	require.NoError(err, "bob, whose own local key has not ratcheted, should still be able to open the message")
}
