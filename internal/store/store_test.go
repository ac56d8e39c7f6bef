package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gotr/internal/crypto"
)

func TestIdentityStore_SaveLoadRoundTrip(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	s := NewIdentityStore(dir)

	kp, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)
	require.NoError(s.Save("correct horse battery staple", kp))

	got, err := s.Load("correct horse battery staple")
	require.NoError(err)
	require.Equal(kp.Public, got.Public)
	require.Equal(kp.Private, got.Private)
}

func TestIdentityStore_WrongPassphraseFails(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	s := NewIdentityStore(dir)

	kp, err := crypto.GenerateLongTermKeyPair()
	require.NoError(err)
	require.NoError(s.Save("right passphrase", kp))

	_, err = s.Load("wrong passphrase")
	require.Error(err, "Load with wrong passphrase should fail")
}

func TestIdentityStore_LoadOrCreateGeneratesOnce(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	s := NewIdentityStore(dir)

	first, err := LoadOrCreate(s, "pw")
	require.NoError(err)
	second, err := LoadOrCreate(s, "pw")
	require.NoError(err)
	require.Equal(first.Public, second.Public, "LoadOrCreate generated a new identity on the second call")
}

func TestFingerprintStore_RememberAndLookup(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	s := NewFingerprintStore(dir)

	fp := TrustedFingerprint{Account: "alice", Peer: "bob", Fingerprint: "abc123"}
	require.NoError(s.Remember(fp))

	got, ok, err := s.Lookup("alice", "bob")
	require.NoError(err)
	require.True(ok)
	require.Equal("abc123", string(got.Fingerprint))
	require.False(got.Verified)

	verified, err := s.MarkVerified("alice", "bob")
	require.NoError(err)
	require.True(verified, "MarkVerified should report the fingerprint existed")

	got, _, _ = s.Lookup("alice", "bob")
	require.True(got.Verified, "fingerprint should be verified after MarkVerified")

	// Remembering the same fingerprint again must not clear Verified.
	require.NoError(s.Remember(TrustedFingerprint{Account: "alice", Peer: "bob", Fingerprint: "abc123"}))
	got, _, _ = s.Lookup("alice", "bob")
	require.True(got.Verified, "re-remembering an unchanged fingerprint should preserve Verified")
}

func TestFingerprintStore_MarkVerifiedUnknownPeer(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	s := NewFingerprintStore(dir)

	ok, err := s.MarkVerified("alice", "stranger")
	require.NoError(err)
	require.False(ok, "MarkVerified should report false for an unknown peer")
}
