package ake

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"
)

var (
	errMalformedBody  = errors.New("ake: malformed message body")
	errUnexpectedKind = errors.New("ake: message kind does not match handshake state")
	errTranscript     = errors.New("ake: transcript signature did not verify")
	errCommitMismatch = errors.New("ake: revealed value does not hash to the committed value")
)

func writeMPI(buf []byte, n *big.Int) []byte {
	b := n.Bytes()
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	return append(append(buf, l[:]...), b...)
}

func readMPI(buf []byte, off int) (*big.Int, int, error) {
	if off+4 > len(buf) {
		return nil, off, errMalformedBody
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errMalformedBody
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
		return nil, off, errMalformedBody
	}
	n := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return nil, off, errMalformedBody
	}
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, off + n, nil
}

// hashCommit is OTR's commitment hash over an initiator's revealed DH
// public value; it is local to the handshake and carries no wire
// compatibility requirement, so plain SHA-256 suffices.
func hashCommit(gx *big.Int) [32]byte {
	return sha256.Sum256(gx.Bytes())
}
