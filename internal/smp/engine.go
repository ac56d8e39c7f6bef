package smp

import (
	"errors"
	"math/big"
	"sync"

	interfaces "gotr/internal/domain/interfaces"
	domaintypes "gotr/internal/domain/types"
)

type engineState int

const (
	stateIdle engineState = iota
	stateWaitingLocalResponse // received SMP1/SMP1Q, waiting for RespondSecret
	stateWaitingSMP2          // sent SMP1, waiting for peer's SMP2
	stateWaitingSMP3          // sent SMP2, waiting for peer's SMP3
	stateWaitingSMP4          // sent SMP3, waiting for peer's SMP4
	stateDone
)

var (
	// ErrMismatch is returned by HandleTLV when an SMP exchange concludes
	// with the two sides' secrets not matching.
	ErrMismatch = errors.New("smp: secrets do not match")
	errWrongState = errors.New("smp: tlv received out of sequence")
)

// Engine is the default domain.SmpEngine: a reduced two-party secret
// equality check built from a secret-derived Diffie-Hellman generator.
type Engine struct {
	mu sync.Mutex

	crypto interfaces.CryptoProvider

	state    engineState
	question string

	exponent     *big.Int // our a (initiator) or b (responder)
	remotePublic *big.Int // peer's A or B
	sharedKey    []byte   // MAC(d) confirmation key, derived once both publics known

	// the secret passed to InitiateSecret, kept until the exchange
	// resets; nothing reads it after it is stored.
	ourSecret []byte
}

// New returns a fresh SmpEngine.
func New(crypto interfaces.CryptoProvider) *Engine {
	return &Engine{crypto: crypto, state: stateIdle}
}

const (
	labelResponderConfirm = "smp-confirm-responder"
	labelInitiatorConfirm = "smp-confirm-initiator"
)

// InitiateSecret starts an SMP exchange as initiator.
func (e *Engine) InitiateSecret(question string, secret []byte) ([]domaintypes.TLV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateIdle {
		return nil, errWrongState
	}

	a, err := randomExponent()
	if err != nil {
		return nil, err
	}
	gPrime := deriveGenerator(secret)
	A := modExp(gPrime, a)

	e.exponent = a
	e.question = question
	e.ourSecret = secret
	e.state = stateWaitingSMP2

	body := []byte{}
	if question != "" {
		body = writeLV(body, []byte(question))
	}
	body = writeMPI(body, A)

	tlvType := domaintypes.TLVSMP1
	if question != "" {
		tlvType = domaintypes.TLVSMP1Q
	}
	return []domaintypes.TLV{{Type: tlvType, Value: body}}, nil
}

// RespondSecret answers an exchange the peer began, completing the
// responder side of the protocol once HandleTLV has already buffered
// their SMP1.
func (e *Engine) RespondSecret(question string, secret []byte) ([]domaintypes.TLV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateWaitingLocalResponse {
		return nil, errWrongState
	}

	b, err := randomExponent()
	if err != nil {
		return nil, err
	}
	gPrime := deriveGenerator(secret)
	B := modExp(gPrime, b)
	K := modExp(e.remotePublic, b)

	e.sharedKey = K.Bytes()
	macB := e.crypto.MAC(e.sharedKey, []byte(labelResponderConfirm))

	e.exponent = b
	e.state = stateWaitingSMP3

	body := writeMPI(nil, B)
	body = writeLV(body, macB)
	return []domaintypes.TLV{{Type: domaintypes.TLVSMP2, Value: body}}, nil
}

// Abort cancels any in-progress exchange.
func (e *Engine) Abort() []domaintypes.TLV {
	e.mu.Lock()
	defer e.mu.Unlock()
	wasIdle := e.state == stateIdle
	e.reset()
	if wasIdle {
		return nil
	}
	return []domaintypes.TLV{{Type: domaintypes.TLVSMPAbort}}
}

// InProgress reports whether an exchange is underway.
func (e *Engine) InProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateIdle
}

// Reset discards in-progress state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Engine) reset() {
	e.state = stateIdle
	e.question = ""
	e.exponent = nil
	e.remotePublic = nil
	e.sharedKey = nil
	e.ourSecret = nil
}

// HandleTLV offers one inbound TLV to the engine.
func (e *Engine) HandleTLV(tlv domaintypes.TLV) ([]domaintypes.TLV, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch tlv.Type {
	case domaintypes.TLVSMP1, domaintypes.TLVSMP1Q:
		return e.onSMP1(tlv)
	case domaintypes.TLVSMP2:
		return e.onSMP2(tlv)
	case domaintypes.TLVSMP3:
		return e.onSMP3(tlv)
	case domaintypes.TLVSMP4:
		return e.onSMP4(tlv)
	case domaintypes.TLVSMPAbort:
		e.reset()
		return nil, true, nil
	default:
		return nil, false, nil
	}
}

func (e *Engine) onSMP1(tlv domaintypes.TLV) ([]domaintypes.TLV, bool, error) {
	if e.state != stateIdle {
		e.reset()
		return nil, true, errWrongState
	}
	body := tlv.Value
	off := 0
	question := ""
	if tlv.Type == domaintypes.TLVSMP1Q {
		q, n, err := readLV(body, 0)
		if err != nil {
			return nil, true, err
		}
		question = string(q)
		off = n
	}
	A, _, err := readMPI(body, off)
	if err != nil {
		return nil, true, err
	}
	e.question = question
	e.remotePublic = A
	e.state = stateWaitingLocalResponse
	return nil, true, nil
}

func (e *Engine) onSMP2(tlv domaintypes.TLV) ([]domaintypes.TLV, bool, error) {
	if e.state != stateWaitingSMP2 {
		e.reset()
		return nil, true, errWrongState
	}
	B, off, err := readMPI(tlv.Value, 0)
	if err != nil {
		return nil, true, err
	}
	macB, _, err := readLV(tlv.Value, off)
	if err != nil {
		return nil, true, err
	}

	K := modExp(B, e.exponent)
	e.sharedKey = K.Bytes()

	expectedMACB := e.crypto.MAC(e.sharedKey, []byte(labelResponderConfirm))
	if !e.crypto.ConstantTimeCompare(expectedMACB, macB) {
		e.reset()
		return []domaintypes.TLV{{Type: domaintypes.TLVSMPAbort}}, true, ErrMismatch
	}

	macA := e.crypto.MAC(e.sharedKey, []byte(labelInitiatorConfirm))
	e.state = stateWaitingSMP4
	return []domaintypes.TLV{{Type: domaintypes.TLVSMP3, Value: macA}}, true, nil
}

func (e *Engine) onSMP3(tlv domaintypes.TLV) ([]domaintypes.TLV, bool, error) {
	if e.state != stateWaitingSMP3 {
		e.reset()
		return nil, true, errWrongState
	}
	expectedMACA := e.crypto.MAC(e.sharedKey, []byte(labelInitiatorConfirm))
	if !e.crypto.ConstantTimeCompare(expectedMACA, tlv.Value) {
		e.reset()
		return []domaintypes.TLV{{Type: domaintypes.TLVSMPAbort}}, true, ErrMismatch
	}
	e.reset()
	return []domaintypes.TLV{{Type: domaintypes.TLVSMP4}}, true, nil
}

func (e *Engine) onSMP4(tlv domaintypes.TLV) ([]domaintypes.TLV, bool, error) {
	if e.state != stateWaitingSMP4 {
		e.reset()
		return nil, true, errWrongState
	}
	e.reset()
	return nil, true, nil
}

var _ interfaces.SmpEngine = (*Engine)(nil)
