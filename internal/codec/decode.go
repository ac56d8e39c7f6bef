package codec

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	interfaces "gotr/internal/domain/interfaces"
	domaintypes "gotr/internal/domain/types"
)

// Decode classifies and parses raw. An input that matches none of the OTR
// message shapes is returned unchanged as plaintext, per the inbound
// pipeline's "return unchanged" contract; an input that looks like OTR
// framing but fails to parse internally is a malformed-frame error.
func (d *Default) Decode(raw string) (interfaces.Decoded, error) {
	switch {
	case d.IsEncoded(raw):
		return d.decodeEncoded(raw)
	case strings.HasPrefix(raw, queryPrefix):
		return d.decodeQuery(raw)
	case strings.HasPrefix(raw, errorPrefix):
		return interfaces.Decoded{
			Kind:  domaintypes.KindError,
			Error: &domaintypes.ErrorMessage{Text: strings.TrimPrefix(raw, errorPrefix)},
		}, nil
	default:
		return d.decodePlainText(raw), nil
	}
}

func (d *Default) decodeEncoded(raw string) (interfaces.Decoded, error) {
	b64 := strings.TrimSuffix(strings.TrimPrefix(raw, encodedPrefix), encodedSuffix)
	payload, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return interfaces.Decoded{}, errMalformed
	}
	if len(payload) < 3 {
		return interfaces.Decoded{}, errTruncated
	}
	kb := payload[0]
	version := int(binary.BigEndian.Uint16(payload[1:3]))
	off := 3
	var sender, receiver domaintypes.InstanceTag
	if version == 3 {
		if len(payload) < 11 {
			return interfaces.Decoded{}, errTruncated
		}
		sender = domaintypes.InstanceTag(binary.BigEndian.Uint32(payload[3:7]))
		receiver = domaintypes.InstanceTag(binary.BigEndian.Uint32(payload[7:11]))
		off = 11
	}

	switch kb {
	case kindByteDHCommit, kindByteDHKey, kindByteRevealSignature, kindByteSignature:
		kind := akeKind(kb)
		body := append([]byte(nil), payload[off:]...)
		return interfaces.Decoded{
			Kind: kind,
			AKE: &domaintypes.AKEMessage{
				Kind: kind, Version: version,
				SenderTag: sender, ReceiverTag: receiver,
				Body: body,
			},
		}, nil
	case kindByteData:
		msg, err := decodeDataBody(payload, off, version, sender, receiver)
		if err != nil {
			return interfaces.Decoded{}, err
		}
		return interfaces.Decoded{Kind: domaintypes.KindData, Data: msg}, nil
	default:
		return interfaces.Decoded{}, errUnknownKind
	}
}

func akeKind(kb byte) domaintypes.MessageKind {
	switch kb {
	case kindByteDHCommit:
		return domaintypes.KindDHCommit
	case kindByteDHKey:
		return domaintypes.KindDHKey
	case kindByteRevealSignature:
		return domaintypes.KindRevealSignature
	default:
		return domaintypes.KindSignature
	}
}

func decodeDataBody(payload []byte, off, version int, sender, receiver domaintypes.InstanceTag) (*domaintypes.DataMessage, error) {
	if off+9 > len(payload) {
		return nil, errTruncated
	}
	flags := payload[off]
	off++
	senderKeyID := binary.BigEndian.Uint32(payload[off : off+4])
	off += 4
	recipientKeyID := binary.BigEndian.Uint32(payload[off : off+4])
	off += 4

	nextDH, off, err := readMPI(payload, off)
	if err != nil {
		return nil, err
	}
	if off+8 > len(payload) {
		return nil, errTruncated
	}
	counterTop := binary.BigEndian.Uint64(payload[off : off+8])
	off += 8

	enc, off, err := readLV(payload, off)
	if err != nil {
		return nil, err
	}
	if off+20 > len(payload) {
		return nil, errTruncated
	}
	var mac [20]byte
	copy(mac[:], payload[off:off+20])
	off += 20

	reveal, _, err := readLV(payload, off)
	if err != nil {
		return nil, err
	}

	return &domaintypes.DataMessage{
		T: domaintypes.DataMessageT{
			Version: version, SenderTag: sender, ReceiverTag: receiver,
			Flags: flags, SenderKeyID: senderKeyID, RecipientKeyID: recipientKeyID,
			NextDH: nextDH, CounterTopHalf: counterTop, EncryptedMessage: enc,
		},
		MAC:        mac,
		OldMACKeys: reveal,
	}, nil
}

func (d *Default) decodeQuery(raw string) (interfaces.Decoded, error) {
	body := strings.TrimPrefix(raw, queryPrefix)
	end := strings.Index(body, querySuffix)
	if end < 0 {
		return interfaces.Decoded{}, errMalformed
	}
	versionChars := body[:end]
	var versions []int
	for _, c := range versionChars {
		v, err := strconv.Atoi(string(c))
		if err != nil {
			return interfaces.Decoded{}, errMalformed
		}
		versions = append(versions, v)
	}
	return interfaces.Decoded{
		Kind:  domaintypes.KindQuery,
		Query: &domaintypes.QueryMessage{Versions: versions},
	}, nil
}

// decodePlainText strips a whitespace tag if present, reporting the
// versions it advertised; otherwise it is the input string verbatim.
func (d *Default) decodePlainText(raw string) interfaces.Decoded {
	idx := strings.Index(raw, whitespaceBase)
	if idx < 0 {
		return interfaces.Decoded{
			Kind:      domaintypes.KindPlaintext,
			PlainText: &domaintypes.PlainTextMessage{Text: raw},
		}
	}
	text := raw[:idx]
	tail := raw[idx+len(whitespaceBase):]
	var versions []int
	for len(tail) >= len(whitespaceV2) {
		switch {
		case strings.HasPrefix(tail, whitespaceV3):
			versions = append(versions, 3)
			tail = tail[len(whitespaceV3):]
		case strings.HasPrefix(tail, whitespaceV2):
			versions = append(versions, 2)
			tail = tail[len(whitespaceV2):]
		default:
			tail = ""
		}
	}
	return interfaces.Decoded{
		Kind:      domaintypes.KindPlaintext,
		PlainText: &domaintypes.PlainTextMessage{Text: text, Versions: versions},
	}
}

var _ interfaces.Codec = (*Default)(nil)
