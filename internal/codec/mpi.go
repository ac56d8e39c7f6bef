package codec

import (
	"encoding/binary"
	"math/big"
)

// writeMPI appends a length-prefixed big-endian integer: a 4-byte length
// followed by that many magnitude bytes, OTR's MPI convention.
func writeMPI(buf []byte, n *big.Int) []byte {
	if n == nil {
		n = big.NewInt(0)
	}
	b := n.Bytes()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, b...)
}

// readMPI consumes a length-prefixed integer from buf starting at off,
// returning the value and the offset just past it.
func readMPI(buf []byte, off int) (*big.Int, int, error) {
	if off+4 > len(buf) {
		return nil, off, errTruncated
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errTruncated
	}
	v := new(big.Int).SetBytes(buf[off : off+n])
	return v, off + n, nil
}

// writeLV appends a length-prefixed byte string: a 4-byte length followed
// by the bytes themselves.
func writeLV(buf []byte, v []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, v...)
}

// readLV consumes a length-prefixed byte string from buf starting at off.
func readLV(buf []byte, off int) ([]byte, int, error) {
	if off+4 > len(buf) {
		return nil, off, errTruncated
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errTruncated
	}
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, off + n, nil
}
