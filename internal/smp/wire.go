package smp

import (
	"encoding/binary"
	"errors"
	"math/big"
)

var errMalformed = errors.New("smp: malformed tlv payload")

func writeMPI(buf []byte, n *big.Int) []byte {
	b := n.Bytes()
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	return append(append(buf, l[:]...), b...)
}

func readMPI(buf []byte, off int) (*big.Int, int, error) {
	if off+4 > len(buf) {
		return nil, off, errMalformed
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errMalformed
	}
	return new(big.Int).SetBytes(buf[off : off+n]), off + n, nil
}

func writeLV(buf []byte, v []byte) []byte {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(v)))
	return append(append(buf, l[:]...), v...)
}

func readLV(buf []byte, off int) ([]byte, int, error) {
	if off+4 > len(buf) {
		return nil, off, errMalformed
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errMalformed
	}
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, off + n, nil
}
