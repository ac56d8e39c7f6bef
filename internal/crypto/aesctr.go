package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// ctrIV builds the 16-byte AES-CTR initial counter block from the wire's
// top-half counter: the high 8 bytes carry counterTopHalf, the low 8
// bytes are zero on the wire and serve as AES-CTR's internal block
// counter.
func ctrIV(counterTopHalf uint64) []byte {
	iv := make([]byte, aes.BlockSize)
	binary.BigEndian.PutUint64(iv[:8], counterTopHalf)
	return iv
}

// EncryptCTR and DecryptCTR perform AES-CTR; as a stream cipher the two
// operations are identical, kept as separate names for call-site clarity.

func (p *Provider) EncryptCTR(key []byte, counterTopHalf uint64, plaintext []byte) ([]byte, error) {
	return xorCTR(key, counterTopHalf, plaintext)
}

func (p *Provider) DecryptCTR(key []byte, counterTopHalf uint64, ciphertext []byte) ([]byte, error) {
	return xorCTR(key, counterTopHalf, ciphertext)
}

func xorCTR(key []byte, counterTopHalf uint64, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, ctrIV(counterTopHalf))
	out := make([]byte, len(in))
	stream.XORKeyStream(out, in)
	return out, nil
}
