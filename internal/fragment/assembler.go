package fragment

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	domaintypes "gotr/internal/domain/types"
)

var (
	// ErrInvalidFragment means raw carried the fragment prefix but its
	// k/n/tag fields did not parse, or were out of range (k == 0, k > n).
	ErrInvalidFragment = errors.New("fragment: invalid fragment")

	// ErrUnknownInstance means the fragment's receiver tag names an
	// instance other than the one the assembler was asked about.
	ErrUnknownInstance = errors.New("fragment: fragment addressed to another instance")
)

const fragmentPrefix = "?OTR|"

type partial struct {
	receiver domaintypes.InstanceTag
	n        int
	pieces   map[int]string
}

// Assembler reassembles fragmented messages, buffering in-progress
// fragment sets per sending instance. It is safe for concurrent use.
type Assembler struct {
	mu      sync.Mutex
	pending map[domaintypes.InstanceTag]*partial
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{pending: make(map[domaintypes.InstanceTag]*partial)}
}

// IsFragment reports whether raw carries the fragment prefix.
func IsFragment(raw string) bool {
	return strings.HasPrefix(raw, fragmentPrefix)
}

// Feed processes one inbound piece. localTag, when non-zero, is this
// host's own instance tag; a fragment addressed to a different nonzero
// receiver tag is rejected with ErrUnknownInstance. It returns the
// reassembled message and ok == true once the final piece of a set
// arrives; ok == false with a nil error means more pieces are still
// needed.
func (a *Assembler) Feed(raw string, localTag domaintypes.InstanceTag) (string, bool, error) {
	sender, receiver, k, n, piece, err := parseFragment(raw)
	if err != nil {
		return "", false, err
	}
	if localTag != domaintypes.ZeroTag && receiver != domaintypes.ZeroTag && receiver != localTag {
		return "", false, ErrUnknownInstance
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if k == 1 {
		a.pending[sender] = &partial{receiver: receiver, n: n, pieces: map[int]string{1: piece}}
	} else {
		p := a.pending[sender]
		if p == nil || p.n != n {
			// Out-of-order start or a restarted set; nothing to recover.
			delete(a.pending, sender)
			return "", false, ErrInvalidFragment
		}
		p.pieces[k] = piece
	}

	p := a.pending[sender]
	if p == nil || len(p.pieces) < p.n {
		return "", false, nil
	}

	var sb strings.Builder
	for i := 1; i <= p.n; i++ {
		piece, ok := p.pieces[i]
		if !ok {
			return "", false, nil
		}
		sb.WriteString(piece)
	}
	delete(a.pending, sender)
	return sb.String(), true, nil
}

// Forget discards any in-progress fragment set for sender, e.g. after a
// session reset.
func (a *Assembler) Forget(sender domaintypes.InstanceTag) {
	a.mu.Lock()
	delete(a.pending, sender)
	a.mu.Unlock()
}

func parseFragment(raw string) (sender, receiver domaintypes.InstanceTag, k, n int, piece string, err error) {
	if !IsFragment(raw) || !strings.HasSuffix(raw, ",") {
		return 0, 0, 0, 0, "", ErrInvalidFragment
	}
	body := strings.TrimSuffix(strings.TrimPrefix(raw, fragmentPrefix), ",")
	// body: sender|receiver,k,n,payload  (payload may itself contain commas)
	parts := strings.SplitN(body, ",", 4)
	if len(parts) != 4 {
		return 0, 0, 0, 0, "", ErrInvalidFragment
	}
	tags := strings.SplitN(parts[0], "|", 2)
	if len(tags) != 2 {
		return 0, 0, 0, 0, "", ErrInvalidFragment
	}

	s, err1 := strconv.ParseUint(tags[0], 10, 32)
	r, err2 := strconv.ParseUint(tags[1], 10, 32)
	kk, err3 := strconv.Atoi(parts[1])
	nn, err4 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, 0, 0, 0, "", ErrInvalidFragment
	}
	if kk < 1 || nn < 1 || kk > nn {
		return 0, 0, 0, 0, "", ErrInvalidFragment
	}
	return domaintypes.InstanceTag(s), domaintypes.InstanceTag(r), kk, nn, parts[3], nil
}
