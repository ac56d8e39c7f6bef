package keys

import (
	"math/big"

	interfaces "gotr/internal/domain/interfaces"
	domaintypes "gotr/internal/domain/types"
)

// cell is one entry of the 2x2 matrix: a fixed (local, remote) DH pairing
// and the data keys derived from it, computed lazily and cached.
type cell struct {
	localID  uint32
	remoteID uint32
	localDH  domaintypes.DHKeyPair
	remoteDH *big.Int

	derived  bool
	material interfaces.DataKeyMaterial

	sendCounter uint64
	recvCounter uint64

	usedReceivingMACKey bool
}

func (c *cell) keyMaterial(crypto interfaces.CryptoProvider) (interfaces.DataKeyMaterial, error) {
	if c.derived {
		return c.material, nil
	}
	shared, err := crypto.DH(c.localDH.X, c.remoteDH)
	if err != nil {
		return interfaces.DataKeyMaterial{}, err
	}
	mat, err := crypto.DeriveDataKeys(c.localDH.Public, c.remoteDH, shared)
	if err != nil {
		return interfaces.DataKeyMaterial{}, err
	}
	c.material = mat
	c.derived = true
	return mat, nil
}
