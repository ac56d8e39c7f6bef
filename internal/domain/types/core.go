package types

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// SessionID identifies a conversation: a local account talking to a peer
// over a named protocol (e.g. "xmpp", "irc"). It is comparable and may be
// used as a map key.
type SessionID struct {
	Account  string
	Peer     string
	Protocol string
}

// String renders the triple for logging.
func (s SessionID) String() string {
	return fmt.Sprintf("%s<->%s(%s)", s.Account, s.Peer, s.Protocol)
}

// InstanceTag identifies one of possibly several simultaneously logged-in
// endpoints of the same logical peer, as introduced by OTR version 3.
type InstanceTag uint32

// ZeroTag is the reserved "any instance" value. A receiverTag of ZeroTag in
// an inbound message matches every instance; a pinned receiverTag of
// ZeroTag means "not yet pinned to a specific remote instance".
const ZeroTag InstanceTag = 0

// minInstanceTag is the lowest value a freshly generated sender tag may
// take; values below it are reserved.
const minInstanceTag InstanceTag = 0x100

// GenerateInstanceTag draws a fresh sender instance tag uniformly from
// [0x100, 0xFFFFFFFF].
func GenerateInstanceTag() (InstanceTag, error) {
	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, err
		}
		v := InstanceTag(binary.BigEndian.Uint32(buf[:]))
		if v >= minInstanceTag {
			return v, nil
		}
	}
}
