package fragment

import (
	"fmt"
	"strings"

	domaintypes "gotr/internal/domain/types"
)

const fragmentOverhead = len("?OTR|4294967295|4294967295,65535,65535,,")

// Fragmenter splits an encoded OTR message into pieces no host message
// can exceed. A message that already fits, or that is not OTR-encoded at
// all, is returned as a single-element slice holding the input verbatim.
type Fragmenter struct {
	isEncoded func(string) bool
}

// New returns a Fragmenter that uses isEncoded to decide whether a string
// is subject to fragmentation.
func New(isEncoded func(string) bool) *Fragmenter {
	return &Fragmenter{isEncoded: isEncoded}
}

// Split breaks msg into fragments of at most maxSize bytes each, tagged
// with sender/receiver instance tags for reassembly. maxSize <= 0 or a
// message too short to need splitting yields []string{msg}.
func (f *Fragmenter) Split(msg string, sender, receiver domaintypes.InstanceTag, maxSize int) ([]string, error) {
	if !f.isEncoded(msg) || maxSize <= 0 || len(msg) <= maxSize {
		return []string{msg}, nil
	}

	payloadSize := maxSize - fragmentOverhead
	if payloadSize <= 0 {
		return nil, fmt.Errorf("fragment: max size %d too small to carry any payload", maxSize)
	}

	n := (len(msg) + payloadSize - 1) / payloadSize
	out := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		start := (k - 1) * payloadSize
		end := start + payloadSize
		if end > len(msg) {
			end = len(msg)
		}
		out = append(out, formatFragment(sender, receiver, k, n, msg[start:end]))
	}
	return out, nil
}

func formatFragment(sender, receiver domaintypes.InstanceTag, k, n int, piece string) string {
	var sb strings.Builder
	sb.WriteString("?OTR|")
	fmt.Fprintf(&sb, "%d|%d,%d,%d,%s,", sender, receiver, k, n, piece)
	return sb.String()
}
