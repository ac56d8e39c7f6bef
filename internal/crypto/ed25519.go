package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"gotr/internal/domain"
)

// GenerateLongTermKeyPair returns a new Ed25519 signing key pair used by
// AuthContext to authenticate the AKE transcript.
func GenerateLongTermKeyPair() (domain.LongTermKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return domain.LongTermKeyPair{}, err
	}
	var kp domain.LongTermKeyPair
	copy(kp.Private[:], priv)
	copy(kp.Public[:], pub)
	return kp, nil
}

// SignLongTerm signs msg with the private half of kp.
func SignLongTerm(kp domain.LongTermKeyPair, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(kp.Private[:]), msg)
}

// VerifyLongTerm verifies sig over msg against pub.
func VerifyLongTerm(pub [32]byte, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}
