package crypto

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // mandated by the OTR wire format, not a free choice
)

// MAC computes an HMAC-SHA1 over data. OTR's wire MAC length is the full
// 20-byte SHA-1 digest, so there is nothing to truncate in practice; the
// name documents intent at call sites that only use a prefix (none do
// today).
func (p *Provider) MAC(key []byte, data []byte) []byte {
	h := hmac.New(sha1.New, key)
	h.Write(data)
	return h.Sum(nil)
}
