package ake

import (
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const (
	akeAESKeyLen = 16
	akeMACKeyLen = 20
)

// deriveSigKeys expands the AKE shared secret into the AES/MAC pair used
// to encrypt and authenticate one side's long-term-key reveal, labeled so
// the initiator's Reveal-Signature and the responder's Signature message
// never reuse key material.
func deriveSigKeys(sharedSecret *big.Int, label string) (aesKey, macKey []byte) {
	r := hkdf.New(sha256.New, sharedSecret.Bytes(), nil, []byte(label))
	out := make([]byte, akeAESKeyLen+akeMACKeyLen)
	_, _ = io.ReadFull(r, out)
	return out[:akeAESKeyLen], out[akeAESKeyLen:]
}

const (
	labelInitiatorSig = "gotr|ake-sig-i"
	labelResponderSig = "gotr|ake-sig-r"
)
