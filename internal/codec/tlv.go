package codec

import (
	"encoding/binary"

	domaintypes "gotr/internal/domain/types"
)

// EncodeTLVs serializes a TLV list as a sequence of (type u16, length
// u16, value) records.
func (d *Default) EncodeTLVs(tlvs []domaintypes.TLV) []byte {
	var buf []byte
	for _, t := range tlvs {
		var hdr [4]byte
		binary.BigEndian.PutUint16(hdr[0:2], t.Type)
		binary.BigEndian.PutUint16(hdr[2:4], uint16(len(t.Value)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, t.Value...)
	}
	return buf
}

// DecodeTLVs parses a sequence of TLV records, erroring on truncation.
func (d *Default) DecodeTLVs(b []byte) ([]domaintypes.TLV, error) {
	var out []domaintypes.TLV
	off := 0
	for off < len(b) {
		if off+4 > len(b) {
			return nil, errTruncated
		}
		typ := binary.BigEndian.Uint16(b[off : off+2])
		ln := int(binary.BigEndian.Uint16(b[off+2 : off+4]))
		off += 4
		if off+ln > len(b) {
			return nil, errTruncated
		}
		val := make([]byte, ln)
		copy(val, b[off:off+ln])
		off += ln
		out = append(out, domaintypes.TLV{Type: typ, Value: val})
	}
	return out, nil
}
