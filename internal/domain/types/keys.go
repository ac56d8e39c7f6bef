package types

import "math/big"

// DHKeyPair is a Diffie-Hellman key pair over the classic OTR MODP group.
// X is the private exponent, Public = g^X mod p.
type DHKeyPair struct {
	X      *big.Int
	Public *big.Int
}

// LongTermKeyPair is the host-supplied long-term signing identity used by
// AuthContext to sign (and the peer to verify) the AKE transcript.
type LongTermKeyPair struct {
	Private [64]byte // crypto/ed25519 private key layout
	Public  [32]byte
}

// Fingerprint is a short, stable hex digest of a long-term public key
// suitable for out-of-band verification by a human.
type Fingerprint string
