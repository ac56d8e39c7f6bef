// Package crypto implements the default domain.CryptoProvider for the OTR
// session engine: classic MODP Diffie-Hellman (RFC 3526 Group 5, as used
// by OTR v2/v3), AES-CTR, and HMAC-SHA1 for the wire-mandated pieces, plus
// HKDF-SHA256 (golang.org/x/crypto/hkdf) for the internal shared-secret
// expansion that is not part of the wire contract.
//
// It also carries the long-term Ed25519 identity used by the default
// AuthContext to sign and verify the AKE transcript, short display
// fingerprints, base64 helpers, and best-effort memory wiping for
// sensitive buffers.
package crypto
