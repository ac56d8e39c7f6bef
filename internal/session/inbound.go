package session

import (
	"bytes"

	domain "gotr/internal/domain"
	"gotr/internal/fragment"
)

// Receive feeds one inbound transport frame through fragment
// reassembly, decoding, and dispatch, returning any plaintext the host
// should display. An empty result with a nil error means the frame was
// protocol traffic (a fragment piece, an AKE leg, a TLV) with nothing to
// show.
func (c *Core) Receive(raw string) (string, error) {
	if !c.deps.Host.GetSessionPolicy(c.id).AllowsAnyVersion() {
		return raw, nil
	}

	if fragment.IsFragment(raw) {
		full, ok, err := c.assembler.Feed(raw, c.localTag)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		raw = full
	}

	decoded, err := c.deps.Codec.Decode(raw)
	if err != nil {
		c.deps.Host.ShowError(c.id, err.Error())
		return "", err
	}
	return c.handleDecoded(decoded)
}

// handleDecoded dispatches an already-decoded message. Router calls this
// directly once it has picked the right Core for the message's instance
// tag, skipping a second fragment/decode pass.
func (c *Core) handleDecoded(decoded domain.Decoded) (string, error) {
	switch decoded.Kind {
	case domain.KindQuery:
		c.handleQuery(*decoded.Query)
		return "", nil
	case domain.KindError:
		c.deps.Host.ShowError(c.id, decoded.Error.Text)
		return "", nil
	case domain.KindPlaintext:
		return c.handlePlainText(*decoded.PlainText)
	case domain.KindData:
		return c.receiveData(*decoded.Data)
	default:
		if decoded.AKE != nil {
			return c.handleAKE(*decoded.AKE)
		}
		return decoded.PlainText.Text, nil
	}
}

func (c *Core) handleQuery(q domain.QueryMessage) {
	policy := c.deps.Host.GetSessionPolicy(c.id)
	version := policy.BestVersion(q.Versions)
	if version == 0 {
		return
	}
	c.startAKE()
}

func (c *Core) handlePlainText(pt domain.PlainTextMessage) (string, error) {
	policy := c.deps.Host.GetSessionPolicy(c.id)

	c.mu.Lock()
	secure := c.status == domain.StatusEncrypted
	wasSecure := secure || c.status == domain.StatusFinished
	c.mu.Unlock()

	if len(pt.Versions) > 0 && policy.WhitespaceStartAKE && !secure {
		c.startAKE()
	}
	if wasSecure || policy.RequireEncryption {
		c.deps.Host.UnencryptedMessageReceived(c.id, pt.Text)
	}
	return pt.Text, nil
}

func (c *Core) handleAKE(msg domain.AKEMessage) (string, error) {
	c.mu.Lock()
	reply, err := c.auth.HandleMessage(msg)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	var old, newStatus domain.SessionStatus
	changed := false
	if c.auth.IsSecure() {
		if result, rerr := c.auth.Result(); rerr == nil {
			old, err = c.finishAKE(result)
			if err != nil {
				c.mu.Unlock()
				return "", err
			}
			newStatus = c.status
			changed = true
		}
	}
	bus, id, tag := c.deps.Events, c.id, c.remoteTag
	c.mu.Unlock()

	if changed {
		publishStatusChanged(bus, id, tag, old, newStatus)
	}
	if reply != nil {
		c.injectAKE(*reply)
	}
	return "", nil
}

// injectAKE encodes and sends one AKE leg. Must be called without c.mu
// held: Host.InjectMessage may synchronously deliver to the peer, whose
// reply can loop back into this same Core.
func (c *Core) injectAKE(msg domain.AKEMessage) {
	frame, err := c.deps.Codec.EncodeAKE(msg)
	if err != nil {
		return
	}
	_ = c.deps.Host.InjectMessage(c.id, frame)
}

func (c *Core) receiveData(data domain.DataMessage) (string, error) {
	c.mu.Lock()
	if c.status != domain.StatusEncrypted || c.matrix == nil {
		c.mu.Unlock()
		c.reportUnreadable(data)
		return "", ErrNotEncrypted
	}

	mat, err := c.matrix.RecvKeys(data.T.SenderKeyID, data.T.RecipientKeyID, data.T.CounterTopHalf)
	if err != nil {
		c.mu.Unlock()
		c.reportUnreadable(data)
		return "", err
	}

	authBytes := c.deps.Codec.DataAuthenticatedBytes(data.T)
	expectedMAC := c.deps.Crypto.MAC(mat.RecvMAC, authBytes)
	if !c.deps.Crypto.ConstantTimeCompare(expectedMAC, data.MAC[:]) {
		c.mu.Unlock()
		c.reportUnreadable(data)
		return "", errMACMismatch
	}

	plaintext, err := c.deps.Crypto.DecryptCTR(mat.RecvAES, data.T.CounterTopHalf, data.T.EncryptedMessage)
	if err != nil {
		c.mu.Unlock()
		c.reportUnreadable(data)
		return "", err
	}

	if data.T.RecipientKeyID == c.matrix.LocalKeyID() {
		if _, rerr := c.matrix.RatchetLocal(); rerr != nil {
			c.mu.Unlock()
			return "", rerr
		}
	}
	if data.T.SenderKeyID == c.matrix.RemoteKeyID() && data.T.NextDH != nil {
		c.matrix.RatchetRemote(data.T.NextDH)
	}
	c.mu.Unlock()

	text, tlvBytes := splitMessageBody(plaintext)
	if len(tlvBytes) == 0 {
		return text, nil
	}

	tlvs, err := c.deps.Codec.DecodeTLVs(tlvBytes)
	if err != nil {
		return text, nil
	}
	consumed, err := c.handleTLVs(tlvs)
	if consumed {
		return "", err
	}
	return text, err
}

func (c *Core) reportUnreadable(data domain.DataMessage) {
	c.deps.Host.UnreadableMessageReceived(c.id)
	if data.T.Flags&domain.FlagIgnoreUnreadable != 0 {
		return
	}
	reply := c.deps.Host.GetReplyForUnreadableMessage(c.id)
	if reply != "" {
		_ = c.deps.Host.InjectMessage(c.id, c.deps.Codec.EncodeError(reply))
	}
}

// handleTLVs dispatches every TLV carried by a data message, reporting
// whether any of them was a control TLV this Core consumed (DISCONNECTED,
// or claimed by SmpEngine). Per §4.4 step 8, a consumed TLV means the
// accompanying plaintext must not be surfaced to the host.
func (c *Core) handleTLVs(tlvs []domain.TLV) (bool, error) {
	var replies []domain.TLV
	consumed := false
	for _, t := range tlvs {
		if t.Type == domain.TLVDisconnect {
			consumed = true
			c.mu.Lock()
			old := c.status
			c.status = domain.StatusFinished
			bus, id, tag := c.deps.Events, c.id, c.remoteTag
			c.mu.Unlock()
			publishStatusChanged(bus, id, tag, old, domain.StatusFinished)
			continue
		}
		reply, smpConsumed, err := c.smp.HandleTLV(t)
		if !smpConsumed {
			continue
		}
		consumed = true
		if err != nil {
			c.deps.Host.ShowError(c.id, err.Error())
		}
		replies = append(replies, reply...)
	}
	if len(replies) == 0 {
		return consumed, nil
	}
	return consumed, c.sendDataMessage("", replies)
}

var errMACMismatch = &mismatchError{}

type mismatchError struct{}

func (*mismatchError) Error() string { return "session: data message failed authentication" }

// splitMessageBody separates a decrypted data message body into its
// human-readable text and any appended TLV records, which OTR delimits
// with a single NUL byte.
func splitMessageBody(body []byte) (text string, tlvs []byte) {
	if idx := bytes.IndexByte(body, 0x00); idx >= 0 {
		return string(body[:idx]), body[idx+1:]
	}
	return string(body), nil
}
