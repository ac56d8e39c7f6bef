package ake

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sync"

	gotrcrypto "gotr/internal/crypto"
	interfaces "gotr/internal/domain/interfaces"
	domaintypes "gotr/internal/domain/types"
)

type state int

const (
	stateNone state = iota
	stateAwaitingDHKey     // initiator: sent DH-Commit, waiting for DH-Key
	stateAwaitingRevealSig // responder: sent DH-Key, waiting for Reveal-Signature
	stateAwaitingSig       // initiator: sent Reveal-Signature, waiting for Signature
	stateDone
)

// revealKeyLen is the width of the AES key an initiator uses to encrypt
// its own DH public value inside DH-Commit, revealed later in
// Reveal-Signature so the responder can check it against the earlier
// commitment hash.
const revealKeyLen = 16

// Context is the default domain.AuthContext: classic OTR
// DH-Commit/DH-Key/Reveal-Signature/Signature over a CryptoProvider.
type Context struct {
	mu sync.Mutex

	crypto       interfaces.CryptoProvider
	version      int
	localTag     domaintypes.InstanceTag
	remoteTag    domaintypes.InstanceTag
	localKeyPair domaintypes.LongTermKeyPair

	state state

	initiatorTag  domaintypes.InstanceTag
	responderTag  domaintypes.InstanceTag

	localDH domaintypes.DHKeyPair

	revealKey    []byte   // r: our own commit-encryption key, initiator only
	commitHash   [32]byte // hash of our own gx, initiator only
	peerEncGX    []byte   // responder: initiator's encrypted gx from DH-Commit
	peerHashGX   [32]byte // responder: initiator's committed hash

	remoteGX *big.Int // initiator's DH public, known to both once revealed
	remoteGY *big.Int // responder's DH public, known to both once sent

	sharedSecret         *big.Int
	remoteLongTermPublic [32]byte

	result    interfaces.AKEResult
	resultSet bool
}

// New returns a fresh AuthContext for one OTR version between localTag
// and remoteTag (remoteTag may be ZeroTag before it is known), signing
// with localKeyPair.
func New(crypto interfaces.CryptoProvider, version int, localTag, remoteTag domaintypes.InstanceTag, localKeyPair domaintypes.LongTermKeyPair) *Context {
	return &Context{
		crypto: crypto, version: version,
		localTag: localTag, remoteTag: remoteTag,
		localKeyPair: localKeyPair,
	}
}

var errNotSecure = errors.New("ake: handshake has not completed")

// StartAKE begins the handshake as initiator.
func (c *Context) StartAKE() (*domaintypes.AKEMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dh, err := c.crypto.GenerateDHKeyPair()
	if err != nil {
		return nil, err
	}
	r := make([]byte, revealKeyLen)
	if _, err := rand.Read(r); err != nil {
		return nil, err
	}
	encGX, err := c.crypto.EncryptCTR(r, 0, dh.Public.Bytes())
	if err != nil {
		return nil, err
	}

	c.localDH = dh
	c.revealKey = r
	c.commitHash = hashCommit(dh.Public)
	c.initiatorTag = c.localTag
	c.responderTag = c.remoteTag
	c.state = stateAwaitingDHKey

	body := writeLV(nil, encGX)
	body = append(body, c.commitHash[:]...)
	return &domaintypes.AKEMessage{
		Kind: domaintypes.KindDHCommit, Version: c.version,
		SenderTag: c.localTag, ReceiverTag: c.remoteTag, Body: body,
	}, nil
}

// HandleMessage advances the handshake with one inbound AKE leg.
func (c *Context) HandleMessage(msg domaintypes.AKEMessage) (*domaintypes.AKEMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A Context adopted from the master via Clone may still carry the
	// master's ZeroTag remote address; learn the real one as soon as a
	// leg names it, so our replies address the peer correctly.
	if msg.SenderTag != domaintypes.ZeroTag {
		c.remoteTag = msg.SenderTag
	}

	switch msg.Kind {
	case domaintypes.KindDHCommit:
		return c.onDHCommit(msg)
	case domaintypes.KindDHKey:
		return c.onDHKey(msg)
	case domaintypes.KindRevealSignature:
		return c.onRevealSignature(msg)
	case domaintypes.KindSignature:
		return c.onSignature(msg)
	default:
		return nil, errUnexpectedKind
	}
}

func (c *Context) onDHCommit(msg domaintypes.AKEMessage) (*domaintypes.AKEMessage, error) {
	encGX, off, err := readLV(msg.Body, 0)
	if err != nil {
		return nil, err
	}
	if off+32 > len(msg.Body) {
		return nil, errMalformedBody
	}
	var hashGX [32]byte
	copy(hashGX[:], msg.Body[off:off+32])

	if c.state == stateAwaitingDHKey {
		// Both sides started as initiator; the higher commitment hash
		// wins and keeps initiating, the other yields and responds.
		if greaterHash(c.commitHash, hashGX) {
			return nil, nil
		}
	}

	dh, err := c.crypto.GenerateDHKeyPair()
	if err != nil {
		return nil, err
	}

	c.localDH = dh
	c.peerEncGX = encGX
	c.peerHashGX = hashGX
	c.initiatorTag = c.remoteTag
	c.responderTag = c.localTag
	c.state = stateAwaitingRevealSig

	body := writeMPI(nil, dh.Public)
	return &domaintypes.AKEMessage{
		Kind: domaintypes.KindDHKey, Version: c.version,
		SenderTag: c.localTag, ReceiverTag: c.remoteTag, Body: body,
	}, nil
}

func (c *Context) onDHKey(msg domaintypes.AKEMessage) (*domaintypes.AKEMessage, error) {
	if c.state != stateAwaitingDHKey {
		return nil, errUnexpectedKind
	}
	gy, _, err := readMPI(msg.Body, 0)
	if err != nil {
		return nil, err
	}
	shared, err := c.crypto.DH(c.localDH.X, gy)
	if err != nil {
		return nil, err
	}

	c.remoteGY = gy
	c.sharedSecret = shared
	// The DH-Key's sender is the responder; StartAKE may have run before
	// its instance tag was known.
	c.responderTag = c.remoteTag

	transcript := buildTranscript(c.version, c.initiatorTag, c.responderTag, c.localDH.Public, gy)
	sig := gotrcrypto.SignLongTerm(c.localKeyPair, transcript)
	sigBody := append(append([]byte(nil), c.localKeyPair.Public[:]...), sig...)

	aesKey, macKey := deriveSigKeys(shared, labelInitiatorSig)
	encSig, err := c.crypto.EncryptCTR(aesKey, 0, sigBody)
	if err != nil {
		return nil, err
	}
	mac := c.crypto.MAC(macKey, encSig)

	c.state = stateAwaitingSig

	body := append([]byte(nil), c.revealKey...)
	body = writeLV(body, encSig)
	body = append(body, mac...)
	return &domaintypes.AKEMessage{
		Kind: domaintypes.KindRevealSignature, Version: c.version,
		SenderTag: c.localTag, ReceiverTag: c.remoteTag, Body: body,
	}, nil
}

func (c *Context) onRevealSignature(msg domaintypes.AKEMessage) (*domaintypes.AKEMessage, error) {
	if c.state != stateAwaitingRevealSig {
		return nil, errUnexpectedKind
	}
	if len(msg.Body) < revealKeyLen {
		return nil, errMalformedBody
	}
	r := msg.Body[:revealKeyLen]
	encSig, off, err := readLV(msg.Body, revealKeyLen)
	if err != nil {
		return nil, err
	}
	if off+20 > len(msg.Body) {
		return nil, errMalformedBody
	}
	mac := msg.Body[off : off+20]

	gxBytes, err := c.crypto.DecryptCTR(r, 0, c.peerEncGX)
	if err != nil {
		return nil, err
	}
	gx := new(big.Int).SetBytes(gxBytes)
	if hashCommit(gx) != c.peerHashGX {
		return nil, errCommitMismatch
	}

	shared, err := c.crypto.DH(c.localDH.X, gx)
	if err != nil {
		return nil, err
	}

	aesKey, macKey := deriveSigKeys(shared, labelInitiatorSig)
	expectedMAC := c.crypto.MAC(macKey, encSig)
	if !c.crypto.ConstantTimeCompare(expectedMAC, mac) {
		return nil, errTranscript
	}
	sigBody, err := c.crypto.DecryptCTR(aesKey, 0, encSig)
	if err != nil {
		return nil, err
	}
	longTermPub, sig, err := splitSigBody(sigBody)
	if err != nil {
		return nil, err
	}
	transcript := buildTranscript(c.version, c.initiatorTag, c.responderTag, gx, c.localDH.Public)
	if !gotrcrypto.VerifyLongTerm(longTermPub, transcript, sig) {
		return nil, errTranscript
	}

	c.remoteGX = gx
	c.sharedSecret = shared
	c.remoteLongTermPublic = longTermPub

	respTranscript := buildTranscript(c.version, c.initiatorTag, c.responderTag, gx, c.localDH.Public)
	respSig := gotrcrypto.SignLongTerm(c.localKeyPair, respTranscript)
	respSigBody := append(append([]byte(nil), c.localKeyPair.Public[:]...), respSig...)

	aesKey2, macKey2 := deriveSigKeys(shared, labelResponderSig)
	encSig2, err := c.crypto.EncryptCTR(aesKey2, 0, respSigBody)
	if err != nil {
		return nil, err
	}
	mac2 := c.crypto.MAC(macKey2, encSig2)

	c.finish(longTermPub)

	body := writeLV(nil, encSig2)
	body = append(body, mac2...)
	return &domaintypes.AKEMessage{
		Kind: domaintypes.KindSignature, Version: c.version,
		SenderTag: c.localTag, ReceiverTag: c.remoteTag, Body: body,
	}, nil
}

func (c *Context) onSignature(msg domaintypes.AKEMessage) (*domaintypes.AKEMessage, error) {
	if c.state != stateAwaitingSig {
		return nil, errUnexpectedKind
	}
	encSig, off, err := readLV(msg.Body, 0)
	if err != nil {
		return nil, err
	}
	if off+20 > len(msg.Body) {
		return nil, errMalformedBody
	}
	mac := msg.Body[off : off+20]

	aesKey, macKey := deriveSigKeys(c.sharedSecret, labelResponderSig)
	expectedMAC := c.crypto.MAC(macKey, encSig)
	if !c.crypto.ConstantTimeCompare(expectedMAC, mac) {
		return nil, errTranscript
	}
	sigBody, err := c.crypto.DecryptCTR(aesKey, 0, encSig)
	if err != nil {
		return nil, err
	}
	longTermPub, sig, err := splitSigBody(sigBody)
	if err != nil {
		return nil, err
	}
	transcript := buildTranscript(c.version, c.initiatorTag, c.responderTag, c.localDH.Public, c.remoteGY)
	if !gotrcrypto.VerifyLongTerm(longTermPub, transcript, sig) {
		return nil, errTranscript
	}

	c.finish(longTermPub)
	return nil, nil
}

// finish records the negotiated key material. Caller holds c.mu.
func (c *Context) finish(longTermPub [32]byte) {
	remotePublic := c.remoteGY
	if remotePublic == nil {
		remotePublic = c.remoteGX
	}
	c.remoteLongTermPublic = longTermPub
	c.result = interfaces.AKEResult{
		Version: c.version, LocalDH: c.localDH,
		RemotePublic: remotePublic, SharedSecret: c.sharedSecret,
		RemoteLongTermPublic: longTermPub,
	}
	c.resultSet = true
	c.state = stateDone
}

func splitSigBody(b []byte) (pub [32]byte, sig []byte, err error) {
	if len(b) < 32+64 {
		return pub, nil, errMalformedBody
	}
	copy(pub[:], b[:32])
	return pub, b[32 : 32+64], nil
}

// greaterHash reports whether a is lexicographically greater than b.
func greaterHash(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// IsSecure reports whether the handshake has completed.
func (c *Context) IsSecure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateDone
}

// Result returns the negotiated key material.
func (c *Context) Result() (interfaces.AKEResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.resultSet {
		return interfaces.AKEResult{}, errNotSecure
	}
	return c.result, nil
}

// Reset discards in-progress handshake state.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = stateNone
	c.initiatorTag, c.responderTag = domaintypes.ZeroTag, domaintypes.ZeroTag
	c.localDH = domaintypes.DHKeyPair{}
	c.revealKey, c.commitHash = nil, [32]byte{}
	c.peerEncGX, c.peerHashGX = nil, [32]byte{}
	c.remoteGX, c.remoteGY = nil, nil
	c.sharedSecret, c.remoteLongTermPublic = nil, [32]byte{}
	c.result, c.resultSet = interfaces.AKEResult{}, false
}

// Clone returns an independent copy of the current handshake state, used
// when a slave instance adopts a master's in-progress AKE.
func (c *Context) Clone() interfaces.AuthContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c
	cp.mu = sync.Mutex{}
	return &cp
}

var _ interfaces.AuthContext = (*Context)(nil)
