package session

import domain "gotr/internal/domain"

// StartSMP begins an SMP exchange over secret, optionally presenting
// question to the peer.
func (c *Core) StartSMP(question string, secret []byte) error {
	c.mu.Lock()
	encrypted := c.status == domain.StatusEncrypted
	c.mu.Unlock()
	if !encrypted {
		return ErrNotEncrypted
	}
	tlvs, err := c.smp.InitiateSecret(question, secret)
	if err != nil {
		return err
	}
	return c.sendDataMessage("", tlvs)
}

// RespondSMP answers an SMP exchange the peer began.
func (c *Core) RespondSMP(question string, secret []byte) error {
	c.mu.Lock()
	encrypted := c.status == domain.StatusEncrypted
	c.mu.Unlock()
	if !encrypted {
		return ErrNotEncrypted
	}
	tlvs, err := c.smp.RespondSecret(question, secret)
	if err != nil {
		return err
	}
	return c.sendDataMessage("", tlvs)
}

// AbortSMP cancels any in-progress SMP exchange.
func (c *Core) AbortSMP() error {
	c.mu.Lock()
	encrypted := c.status == domain.StatusEncrypted
	c.mu.Unlock()
	tlvs := c.smp.Abort()
	if len(tlvs) == 0 || !encrypted {
		return nil
	}
	return c.sendDataMessage("", tlvs)
}

// SMPInProgress reports whether this instance has an exchange underway.
func (c *Core) SMPInProgress() bool {
	return c.smp.InProgress()
}
