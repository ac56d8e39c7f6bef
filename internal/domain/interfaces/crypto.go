package interfaces

import (
	"math/big"

	domaintypes "gotr/internal/domain/types"
)

// CryptoProvider supplies the primitives the core needs but never
// implements itself: DH keypair generation, AES-CTR, HMAC-SHA1, and the
// key derivations that turn a DH shared secret into AES/MAC key material.
type CryptoProvider interface {
	// GenerateDHKeyPair returns a fresh Diffie-Hellman key pair over the
	// classic OTR MODP group.
	GenerateDHKeyPair() (domaintypes.DHKeyPair, error)
	// DH computes the shared secret g^(xy) mod p for a local private
	// exponent and a remote public value.
	DH(priv *big.Int, remotePublic *big.Int) (*big.Int, error)

	// DeriveDataKeys derives the sending/receiving AES and MAC key
	// material for one SessionKeys cell from a DH shared secret. The
	// derivation is deterministic in (localPublic, remotePublic,
	// sharedSecret); localPublic and remotePublic decide which half of
	// the expanded key material is "send" versus "recv" so that the two
	// ends of the cell agree on which physical bytes are whose sending
	// key, the way OTR compares the two DH public values numerically.
	DeriveDataKeys(localPublic, remotePublic, sharedSecret *big.Int) (DataKeyMaterial, error)

	// EncryptCTR / DecryptCTR perform AES-CTR with the given top-half
	// counter; CTR being a stream cipher, the two are identical.
	EncryptCTR(key []byte, counterTopHalf uint64, plaintext []byte) ([]byte, error)
	DecryptCTR(key []byte, counterTopHalf uint64, ciphertext []byte) ([]byte, error)

	// MAC computes an HMAC-SHA1 over data, truncated to the wire MAC
	// length, and ConstantTimeCompare compares two such MACs safely.
	MAC(key []byte, data []byte) []byte
	ConstantTimeCompare(a, b []byte) bool
}

// DataKeyMaterial holds the four symmetric keys derived for one
// SessionKeys cell: AES and MAC keys, one pair per direction.
type DataKeyMaterial struct {
	SendAES []byte
	RecvAES []byte
	SendMAC []byte // 20 bytes
	RecvMAC []byte // 20 bytes
}
