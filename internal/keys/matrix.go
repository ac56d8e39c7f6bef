package keys

import (
	"errors"
	"math/big"
	"sync"

	interfaces "gotr/internal/domain/interfaces"
	domaintypes "gotr/internal/domain/types"
)

// ErrUnknownKeyID means a data message named a (senderKeyID,
// recipientKeyID) pair outside the matrix's current 2x2 window — too
// old, or never seen — and the caller should treat the message as
// unreadable rather than fail the session.
var ErrUnknownKeyID = errors.New("keys: unknown sender/recipient key id")

var errReplayedCounter = errors.New("keys: message counter did not increase")

type idPair [2]uint32 // [localID, remoteID]

type slot struct {
	id uint32
	dh domaintypes.DHKeyPair
}

type remoteSlot struct {
	id uint32
	pk *big.Int
}

// Matrix holds the four (local slot x remote slot) session-key cells
// active at any point in a session, keyed by the stable (localID,
// remoteID) pair each cell represents so that a ratchet on one axis
// never disturbs the counters of a cell whose id pair survives it. It
// also holds the pool of receiving MAC keys that have fallen out of the
// active window and are awaiting reveal. Safe for concurrent use.
type Matrix struct {
	mu     sync.Mutex
	crypto interfaces.CryptoProvider

	local  [2]slot
	remote [2]remoteSlot

	cells map[idPair]*cell

	revealPool [][]byte
}

// NewMatrix seeds the matrix from the local and remote DH values fixed
// by a completed AKE. Per §4.3's initial population, Previous holds the
// AKE-negotiated pair at key id 1 on both axes, while Current's local
// slot gets a freshly generated look-ahead DH pair at id 2, generated
// up front rather than on the first RatchetLocal call.
func NewMatrix(crypto interfaces.CryptoProvider, localDH domaintypes.DHKeyPair, remotePublic *big.Int) (*Matrix, error) {
	nextDH, err := crypto.GenerateDHKeyPair()
	if err != nil {
		return nil, err
	}
	m := &Matrix{crypto: crypto, cells: make(map[idPair]*cell)}
	m.local[domaintypes.Previous] = slot{id: 1, dh: localDH}
	m.local[domaintypes.Current] = slot{id: 2, dh: nextDH}
	m.remote[domaintypes.Previous] = remoteSlot{id: 1, pk: remotePublic}
	m.remote[domaintypes.Current] = m.remote[domaintypes.Previous]
	return m, nil
}

// activePairs returns the 4 (localID, remoteID) pairs in the current
// window, alongside the slot each axis came from.
func (m *Matrix) activePairs() [4]struct {
	pair idPair
	l, r domaintypes.KeySlot
} {
	var out [4]struct {
		pair idPair
		l, r domaintypes.KeySlot
	}
	i := 0
	for _, l := range []domaintypes.KeySlot{domaintypes.Previous, domaintypes.Current} {
		for _, r := range []domaintypes.KeySlot{domaintypes.Previous, domaintypes.Current} {
			out[i] = struct {
				pair idPair
				l, r domaintypes.KeySlot
			}{idPair{m.local[l].id, m.remote[r].id}, l, r}
			i++
		}
	}
	return out
}

// cellFor returns the cell for (l, r), creating it if this exact id pair
// has not been seen before. Caller holds m.mu.
func (m *Matrix) cellFor(l, r domaintypes.KeySlot) *cell {
	p := idPair{m.local[l].id, m.remote[r].id}
	if c, ok := m.cells[p]; ok {
		return c
	}
	c := &cell{
		localID:  m.local[l].id,
		remoteID: m.remote[r].id,
		localDH:  m.local[l].dh,
		remoteDH: m.remote[r].pk,
	}
	m.cells[p] = c
	return c
}

// pruneLocked drops cells no longer in the active 2x2 window, queuing
// their receiving MAC key for reveal if it was ever used to decrypt a
// message. Caller holds m.mu.
func (m *Matrix) pruneLocked() {
	keep := make(map[idPair]bool, 4)
	for _, ap := range m.activePairs() {
		keep[ap.pair] = true
	}
	for p, c := range m.cells {
		if keep[p] {
			continue
		}
		if c.derived && c.usedReceivingMACKey {
			m.revealPool = append(m.revealPool, append([]byte(nil), c.material.RecvMAC...))
		}
		delete(m.cells, p)
	}
}

// LocalKeyID returns the current local DH key id, the one advertised to
// the peer as a sending key.
func (m *Matrix) LocalKeyID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.local[domaintypes.Current].id
}

// RemoteKeyID returns the current remote DH key id.
func (m *Matrix) RemoteKeyID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remote[domaintypes.Current].id
}

// LocalPublic returns the current local DH public value, sent as the
// next-DH field of outgoing data messages so the peer can ratchet ahead
// of time.
func (m *Matrix) LocalPublic() *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.local[domaintypes.Current].dh.Public
}

// SendKeys returns the data keys and the next send counter for the
// (Previous, Current) cell — the encryption cell, per §4.3: the older
// local key paired with the newer remote key — used to encrypt and MAC
// an outgoing message, along with the local/remote key ids to stamp on
// the wire.
func (m *Matrix) SendKeys() (interfaces.DataKeyMaterial, uint64, uint32, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.cellFor(domaintypes.Previous, domaintypes.Current)
	mat, err := c.keyMaterial(m.crypto)
	if err != nil {
		return interfaces.DataKeyMaterial{}, 0, 0, 0, err
	}
	c.sendCounter++
	return mat, c.sendCounter, c.localID, c.remoteID, nil
}

// RecvKeys locates the cell matching the (senderKeyID, recipientKeyID)
// pair named by an inbound data message, provided it falls within the
// current 2x2 window, and returns its data keys. It rejects counters
// that do not strictly increase for that cell, OTR's replay defense.
func (m *Matrix) RecvKeys(senderKeyID, recipientKeyID uint32, counter uint64) (interfaces.DataKeyMaterial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *cell
	for _, ap := range m.activePairs() {
		if ap.pair == (idPair{recipientKeyID, senderKeyID}) {
			found = m.cellFor(ap.l, ap.r)
			break
		}
	}
	if found == nil {
		return interfaces.DataKeyMaterial{}, ErrUnknownKeyID
	}
	if counter <= found.recvCounter {
		return interfaces.DataKeyMaterial{}, errReplayedCounter
	}
	mat, err := found.keyMaterial(m.crypto)
	if err != nil {
		return interfaces.DataKeyMaterial{}, err
	}
	found.recvCounter = counter
	found.usedReceivingMACKey = true
	return mat, nil
}

// RatchetLocal generates a fresh local DH key pair, promotes the current
// local slot to previous, and installs the new key as current. Cells
// whose id pair falls out of the resulting window are pruned and their
// receiving MAC key, if used, is queued for reveal. Call this once a
// message sent under the current local key id is believed to have
// reached the peer.
func (m *Matrix) RatchetLocal() (*big.Int, error) {
	newDH, err := m.crypto.GenerateDHKeyPair()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.local[domaintypes.Previous] = m.local[domaintypes.Current]
	m.local[domaintypes.Current] = slot{id: m.local[domaintypes.Previous].id + 1, dh: newDH}
	m.pruneLocked()
	return newDH.Public, nil
}

// RatchetRemote adopts a new remote DH public value as the current
// remote slot, promoting the old current to previous. A remotePublic
// equal to the existing current value is a no-op. Cells falling out of
// the resulting window are pruned and their receiving MAC key, if used,
// is queued for reveal.
func (m *Matrix) RatchetRemote(remotePublic *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remote[domaintypes.Current].pk.Cmp(remotePublic) == 0 {
		return
	}
	m.remote[domaintypes.Previous] = m.remote[domaintypes.Current]
	m.remote[domaintypes.Current] = remoteSlot{id: m.remote[domaintypes.Previous].id + 1, pk: remotePublic}
	m.pruneLocked()
}

// DrainOldMACKeys returns and clears the pool of receiving MAC keys
// queued for reveal, concatenated in queue order, for the OldMACKeys
// field of the next outgoing data message.
func (m *Matrix) DrainOldMACKeys() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, k := range m.revealPool {
		out = append(out, k...)
	}
	m.revealPool = nil
	return out
}
