package codec

import "errors"

// Wire framing constants. These are internal to this implementation, not
// a claim of byte-for-byte compatibility with any other OTR
// implementation: §6.3 only requires that the framing this engine
// produces is the framing it can parse back, consistently, across the
// message families the spec names.
const (
	encodedPrefix = "?OTR:"
	encodedSuffix = "."

	queryPrefix = "?OTRv"
	querySuffix = "?"

	errorPrefix = "?OTR Error:"

	whitespaceBase = " \t  \t\t\t\t \t \t \t  "
	whitespaceV1   = " \t \t  \t "
	whitespaceV2   = "  \t\t  \t "
	whitespaceV3   = " \t \t  \t\t"
)

// Message kind bytes, the first byte of every encoded payload.
const (
	kindByteDHCommit        byte = 0x02
	kindByteDHKey           byte = 0x0a
	kindByteRevealSignature byte = 0x11
	kindByteSignature       byte = 0x12
	kindByteData            byte = 0x03
)

var (
	errMalformed    = errors.New("codec: malformed encoded message")
	errUnknownKind  = errors.New("codec: unknown message kind byte")
	errTruncated    = errors.New("codec: truncated field")
)
