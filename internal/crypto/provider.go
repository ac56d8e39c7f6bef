package crypto

import (
	"crypto/subtle"
	"errors"

	"gotr/internal/domain"
)

// Provider is the default CryptoProvider: classic OTR MODP Diffie-Hellman,
// AES-CTR, and HMAC-SHA1, matching the bit-exact wire requirements of
// OTR v2/v3 (§6.3). Key derivation from the DH shared secret uses HKDF
// (golang.org/x/crypto/hkdf); that inner derivation is not part of the
// wire contract, so it need not match any particular legacy scheme.
type Provider struct{}

// New returns the default CryptoProvider.
func New() *Provider { return &Provider{} }

var (
	// ErrInvalidPublicValue is returned when a remote DH public value
	// fails the [2, p-2] range check.
	ErrInvalidPublicValue = errors.New("crypto: dh public value out of range")
)

// ConstantTimeCompare reports whether a and b are equal using a
// constant-time comparison, so MAC verification does not leak timing
// information about where the first mismatching byte occurs.
func (p *Provider) ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

var _ domain.CryptoProvider = (*Provider)(nil)
