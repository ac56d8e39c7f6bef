package crypto

import (
	"crypto/rand"
	"math/big"

	"gotr/internal/domain"
)

// modpGroup5Hex is the 1536-bit MODP group (RFC 3526, Group 5) that OTR
// versions 2 and 3 use for Diffie-Hellman. It is a public parameter, not a
// secret.
const modpGroup5Hex = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC7" +
	"4020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14" +
	"374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B" +
	"7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163" +
	"BF0598DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208" +
	"552BB9ED529077096966D670C354E4ABC9804F1746C08CA237327FFFFFFFFFF" +
	"FFFFFF"

var (
	dhP = mustHex(modpGroup5Hex)
	dhG = big.NewInt(2)
	// dhQ is (p-1)/2, the order of the subgroup generated by g=2.
	dhQ = new(big.Int).Rsh(new(big.Int).Sub(dhP, big.NewInt(1)), 1)
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("crypto: bad DH group constant")
	}
	return n
}

// dhPrivateBits is the bit length of freshly generated DH exponents,
// matching libotr's convention of drawing a 320-bit exponent rather than a
// full-width one.
const dhPrivateBits = 320

// GenerateDHKeyPair returns a fresh Diffie-Hellman key pair over the
// classic OTR MODP group.
func (p *Provider) GenerateDHKeyPair() (domain.DHKeyPair, error) {
	x, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), dhPrivateBits))
	if err != nil {
		return domain.DHKeyPair{}, err
	}
	pub := new(big.Int).Exp(dhG, x, dhP)
	return domain.DHKeyPair{X: x, Public: pub}, nil
}

// DH computes the shared secret g^(xy) mod p and validates that the
// remote value lies in [2, p-2] to reject small-subgroup confinement.
func (p *Provider) DH(priv *big.Int, remotePublic *big.Int) (*big.Int, error) {
	if remotePublic == nil || remotePublic.Cmp(big.NewInt(1)) <= 0 || remotePublic.Cmp(new(big.Int).Sub(dhP, big.NewInt(1))) >= 0 {
		return nil, ErrInvalidPublicValue
	}
	return new(big.Int).Exp(remotePublic, priv, dhP), nil
}

// DHPrime returns the group modulus, exposed for Codec serialization of
// MPI-typed fields.
func DHPrime() *big.Int { return new(big.Int).Set(dhP) }
