package session

import (
	domain "gotr/internal/domain"
	"gotr/internal/fragment"
)

// Send delivers text to the peer: plaintext (optionally whitespace-tagged)
// while Plaintext, encrypted data messages once Encrypted, and nothing at
// all once Finished.
func (c *Core) Send(text string) error {
	c.mu.Lock()
	status := c.status
	offer := c.offer
	c.mu.Unlock()

	if status == domain.StatusFinished {
		c.deps.Host.FinishedSessionMessage(c.id, text)
		return nil
	}
	if status == domain.StatusEncrypted {
		return c.sendDataMessage(text, nil)
	}

	policy := c.deps.Host.GetSessionPolicy(c.id)
	if policy.RequireEncryption {
		c.deps.Host.RequireEncryptedMessage(c.id, text)
		if offer != domain.OfferSent {
			c.startAKE()
		}
		return nil
	}

	var versions []int
	if policy.SendWhitespaceTag {
		versions = policy.AllowedVersions()
	}
	frame := c.deps.Codec.EncodePlainText(text, versions)
	return c.deps.Host.InjectMessage(c.id, frame)
}

// startAKE begins (or restarts) the handshake as initiator and sends the
// resulting DH-Commit. A no-op while Encrypted (§4.1: startSession is a
// no-op in Encrypted; use Refresh to restart an already-secure session).
func (c *Core) startAKE() {
	c.mu.Lock()
	if c.status == domain.StatusEncrypted {
		c.mu.Unlock()
		return
	}
	msg, err := c.auth.StartAKE()
	if err == nil {
		c.offer = domain.OfferSent
	}
	c.mu.Unlock()

	if err != nil {
		c.deps.Host.ShowError(c.id, err.Error())
		return
	}
	c.injectAKE(*msg)
}

// sendDataMessage encrypts text plus any control tlvs into a data
// message, fragmenting it to the host's MTU before injection.
func (c *Core) sendDataMessage(text string, tlvs []domain.TLV) error {
	c.mu.Lock()
	if c.status != domain.StatusEncrypted || c.matrix == nil {
		c.mu.Unlock()
		return ErrNotEncrypted
	}

	mat, counter, localID, remoteID, err := c.matrix.SendKeys()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	body := []byte(text)
	if len(tlvs) > 0 {
		body = append(body, 0x00)
		body = append(body, c.deps.Codec.EncodeTLVs(tlvs)...)
	}

	ciphertext, err := c.deps.Crypto.EncryptCTR(mat.SendAES, counter, body)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	t := domain.DataMessageT{
		Version: c.version, SenderTag: c.localTag, ReceiverTag: c.remoteTag,
		Flags: domain.FlagNone, SenderKeyID: localID, RecipientKeyID: remoteID,
		NextDH: c.matrix.LocalPublic(), CounterTopHalf: counter, EncryptedMessage: ciphertext,
	}
	authBytes := c.deps.Codec.DataAuthenticatedBytes(t)
	mac := c.deps.Crypto.MAC(mat.SendMAC, authBytes)
	var macArr [20]byte
	copy(macArr[:], mac)

	oldKeys := c.matrix.DrainOldMACKeys()
	localTag, remoteTag, id := c.localTag, c.remoteTag, c.id
	codec := c.deps.Codec
	host := c.deps.Host
	c.mu.Unlock()

	frame, err := codec.EncodeData(domain.DataMessage{T: t, MAC: macArr, OldMACKeys: oldKeys})
	if err != nil {
		return err
	}

	maxSize := host.GetMaxFragmentSize(id)
	pieces, err := fragment.New(codec.IsEncoded).Split(frame, localTag, remoteTag, maxSize)
	if err != nil {
		return err
	}
	for _, p := range pieces {
		if err := host.InjectMessage(id, p); err != nil {
			return err
		}
	}
	return nil
}
