package ake

import (
	"encoding/binary"
	"math/big"

	domaintypes "gotr/internal/domain/types"
)

// buildTranscript is the byte string each side signs: the version and
// instance tags fix the handshake to a specific pair of OTR instances,
// and the two DH public values bind the signature to this exact
// exchange so it cannot be replayed into a different one.
func buildTranscript(version int, initiatorTag, responderTag domaintypes.InstanceTag, gx, gy *big.Int) []byte {
	buf := make([]byte, 0, 64)
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], uint16(version))
	buf = append(buf, v[:]...)
	var t [8]byte
	binary.BigEndian.PutUint32(t[0:4], uint32(initiatorTag))
	binary.BigEndian.PutUint32(t[4:8], uint32(responderTag))
	buf = append(buf, t[:]...)
	buf = writeMPI(buf, gx)
	buf = writeMPI(buf, gy)
	return buf
}
