package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gotrcrypto "gotr/internal/crypto"
	domain "gotr/internal/domain"
)

const idFilename = "identity.json.enc"

type identityRecord struct {
	Private [64]byte `json:"private"`
	Public  [32]byte `json:"public"`
}

// IdentityStore persists the single long-term Ed25519 signing identity a
// host uses across every session, passphrase-encrypted at rest.
type IdentityStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityStore returns an IdentityStore rooted at dir. dir is created
// on first save if it does not already exist.
func NewIdentityStore(dir string) *IdentityStore {
	return &IdentityStore{dir: dir}
}

// Save encrypts and writes kp under passphrase, replacing any existing
// identity.
func (s *IdentityStore) Save(passphrase string, kp domain.LongTermKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(identityRecord{Private: kp.Private, Public: kp.Public})
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	blob, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, idFilename), blob, 0o600)
}

// Load decrypts and returns the stored identity.
func (s *IdentityStore) Load(passphrase string) (domain.LongTermKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, idFilename))
	if err != nil {
		return domain.LongTermKeyPair{}, err
	}
	raw, err := decrypt(passphrase, b)
	if err != nil {
		return domain.LongTermKeyPair{}, err
	}
	var rec identityRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.LongTermKeyPair{}, err
	}
	return domain.LongTermKeyPair{Private: rec.Private, Public: rec.Public}, nil
}

// Exists reports whether an identity has already been saved in dir.
func (s *IdentityStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(filepath.Join(s.dir, idFilename))
	return err == nil
}

// LoadOrCreate loads the stored identity, generating and persisting a
// fresh one under passphrase on first run.
func LoadOrCreate(s *IdentityStore, passphrase string) (domain.LongTermKeyPair, error) {
	if s.Exists() {
		return s.Load(passphrase)
	}
	kp, err := gotrcrypto.GenerateLongTermKeyPair()
	if err != nil {
		return domain.LongTermKeyPair{}, fmt.Errorf("store: generate identity: %w", err)
	}
	if err := s.Save(passphrase, kp); err != nil {
		return domain.LongTermKeyPair{}, err
	}
	return kp, nil
}
