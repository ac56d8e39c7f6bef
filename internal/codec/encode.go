package codec

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	domaintypes "gotr/internal/domain/types"
)

// Default is the default domain.Codec implementation.
type Default struct{}

// New returns the default Codec.
func New() *Default { return &Default{} }

// IsEncoded reports whether s carries the OTR-encoded framing prefix.
func (d *Default) IsEncoded(s string) bool {
	return strings.HasPrefix(s, encodedPrefix)
}

func wrap(payload []byte) string {
	return encodedPrefix + base64.StdEncoding.EncodeToString(payload) + encodedSuffix
}

func kindByte(k domaintypes.MessageKind) byte {
	switch k {
	case domaintypes.KindDHCommit:
		return kindByteDHCommit
	case domaintypes.KindDHKey:
		return kindByteDHKey
	case domaintypes.KindRevealSignature:
		return kindByteRevealSignature
	case domaintypes.KindSignature:
		return kindByteSignature
	default:
		return kindByteData
	}
}

func header(kind byte, version int, sender, receiver domaintypes.InstanceTag) []byte {
	buf := make([]byte, 0, 11)
	buf = append(buf, kind)
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], uint16(version))
	buf = append(buf, v[:]...)
	if version == 3 {
		var s, r [4]byte
		binary.BigEndian.PutUint32(s[:], uint32(sender))
		binary.BigEndian.PutUint32(r[:], uint32(receiver))
		buf = append(buf, s[:]...)
		buf = append(buf, r[:]...)
	}
	return buf
}

// EncodeAKE serializes one leg of the handshake. AuthContext's opaque Body
// is carried verbatim after the shared header.
func (d *Default) EncodeAKE(msg domaintypes.AKEMessage) (string, error) {
	buf := header(kindByte(msg.Kind), msg.Version, msg.SenderTag, msg.ReceiverTag)
	buf = append(buf, msg.Body...)
	return wrap(buf), nil
}

// DataAuthenticatedBytes returns the header, flags, key ids, next-DH
// value, counter, and ciphertext bytes a data message's MAC is computed
// over — everything EncodeData writes before the MAC field itself.
func (d *Default) DataAuthenticatedBytes(t domaintypes.DataMessageT) []byte {
	buf := header(kindByteData, t.Version, t.SenderTag, t.ReceiverTag)
	buf = append(buf, t.Flags)
	var ids [8]byte
	binary.BigEndian.PutUint32(ids[0:4], t.SenderKeyID)
	binary.BigEndian.PutUint32(ids[4:8], t.RecipientKeyID)
	buf = append(buf, ids[:]...)
	buf = writeMPI(buf, t.NextDH)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], t.CounterTopHalf)
	buf = append(buf, ctr[:]...)
	buf = writeLV(buf, t.EncryptedMessage)
	return buf
}

// EncodeData serializes a full data message: the authenticated envelope,
// the MAC over it, and any revealed old MAC keys.
func (d *Default) EncodeData(msg domaintypes.DataMessage) (string, error) {
	buf := d.DataAuthenticatedBytes(msg.T)
	buf = append(buf, msg.MAC[:]...)
	buf = writeLV(buf, msg.OldMACKeys)
	return wrap(buf), nil
}

// EncodeQuery builds "?OTRv<versions>?<space><fallback>".
func (d *Default) EncodeQuery(versions []int, fallback string) string {
	var sb strings.Builder
	sb.WriteString(queryPrefix)
	for _, v := range versions {
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteString(querySuffix)
	if fallback != "" {
		sb.WriteByte(' ')
		sb.WriteString(fallback)
	}
	return sb.String()
}

// EncodeError builds "?OTR Error:<text>".
func (d *Default) EncodeError(text string) string {
	return errorPrefix + text
}

// EncodePlainText appends a whitespace tag advertising whitespaceVersions
// (if any) to text.
func (d *Default) EncodePlainText(text string, whitespaceVersions []int) string {
	if len(whitespaceVersions) == 0 {
		return text
	}
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString(whitespaceBase)
	for _, v := range whitespaceVersions {
		switch v {
		case 2:
			sb.WriteString(whitespaceV2)
		case 3:
			sb.WriteString(whitespaceV3)
		}
	}
	return sb.String()
}
