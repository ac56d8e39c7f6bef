package crypto

import (
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"gotr/internal/domain"
)

const (
	aesKeyLen = 16 // AES-128, per OTR's c/c' derivation
	macKeyLen = 20 // HMAC-SHA1 key/output length
)

// DeriveDataKeys expands a DH shared secret into the four symmetric keys
// one SessionKeys cell needs. Both ends of a cell compute the identical
// shared secret, so the raw HKDF output is the same on both sides; which
// physical half is "send" and which is "recv" is decided by comparing
// localPublic and remotePublic numerically, mirroring OTR's traditional
// assignment of (c, m1, m2) to whichever of the two DH public values is
// numerically greater and (c', m1', m2') to the other.
func (p *Provider) DeriveDataKeys(localPublic, remotePublic, sharedSecret *big.Int) (domain.DataKeyMaterial, error) {
	if sharedSecret == nil || localPublic == nil || remotePublic == nil {
		return domain.DataKeyMaterial{}, ErrInvalidPublicValue
	}
	ikm := sharedSecret.Bytes()
	r := hkdf.New(sha256.New, ikm, nil, []byte("gotr|data-keys"))

	out := make([]byte, 2*aesKeyLen+2*macKeyLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return domain.DataKeyMaterial{}, err
	}

	aesHigh := out[0:aesKeyLen]
	aesLow := out[aesKeyLen : 2*aesKeyLen]
	off := 2 * aesKeyLen
	macHigh := out[off : off+macKeyLen]
	macLow := out[off+macKeyLen : off+2*macKeyLen]

	if localPublic.Cmp(remotePublic) > 0 {
		return domain.DataKeyMaterial{SendAES: aesHigh, RecvAES: aesLow, SendMAC: macHigh, RecvMAC: macLow}, nil
	}
	return domain.DataKeyMaterial{SendAES: aesLow, RecvAES: aesHigh, SendMAC: macLow, RecvMAC: macHigh}, nil
}
