package smp

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	gotrcrypto "gotr/internal/crypto"
)

var (
	groupP = gotrcrypto.DHPrime()
	groupG = big.NewInt(2)
)

const exponentBits = 256

// deriveGenerator maps secret to a group element that depends on it: both
// sides only end up with the same DH output below if they started from
// the same secret.
func deriveGenerator(secret []byte) *big.Int {
	h := sha256.Sum256(secret)
	exp := new(big.Int).SetBytes(h[:])
	return new(big.Int).Exp(groupG, exp, groupP)
}

func randomExponent() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), exponentBits))
}

func modExp(base, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, groupP)
}
