package app

import (
	"fmt"
	"net/http"
	"path/filepath"

	"gotr/internal/ake"
	"gotr/internal/codec"
	gotrcrypto "gotr/internal/crypto"
	domain "gotr/internal/domain"
	"gotr/internal/log"
	"gotr/internal/relay"
	"gotr/internal/session"
	"gotr/internal/smp"
	"gotr/internal/store"
)

// akeVersion is the protocol version Deps.NewAuth negotiates at. Slave
// Cores only exist under OTRv3 (the instance-tag extension), so every
// AuthContext this process constructs speaks v3; a v2-only peer's AKE
// never grows past the master Core, which still interoperates fine
// speaking v3 AKE messages marked with a v2 Policy on the query.
const akeVersion = 3

// Wire bundles the collaborators one process needs to open any number
// of session.Facade conversations: the identity and fingerprint
// keystores, the relay transport, and a Logging backend.
type Wire struct {
	Identity    *store.IdentityStore
	Fingerprint *store.FingerprintStore
	Relay       *relay.Client
	Log         *log.Backend
	Host        *Host
	Deps        session.Deps
	Policy      domain.Policy

	pollIntervalMS int
}

// RelayPollIntervalMS returns how often, in milliseconds, a long-running
// command should poll the relay for new frames.
func (w *Wire) RelayPollIntervalMS() int { return w.pollIntervalMS }

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	f := cfg.File

	backend, err := log.New(f.Logging.File, f.Logging.Level, f.Logging.Disable)
	if err != nil {
		return nil, fmt.Errorf("app: log: %w", err)
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	relayClient := relay.New(f.Relay.URL, httpClient)

	identityStore := store.NewIdentityStore(filepath.Join(f.DataDir, "identity"))
	fingerprintStore := store.NewFingerprintStore(filepath.Join(f.DataDir, "fingerprints"))

	policy := f.Session.Policy()
	host := NewHost(relayClient, identityStore, cfg.Passphrase, policy, f.Session.MaxFragmentSize, backend)

	cryptoProvider := gotrcrypto.New()
	wireCodec := codec.New()

	deps := session.Deps{
		Host:   host,
		Crypto: cryptoProvider,
		Codec:  wireCodec,
		NewAuth: func(localTag, remoteTag domain.InstanceTag) domain.AuthContext {
			kp, err := store.LoadOrCreate(identityStore, cfg.Passphrase)
			if err != nil {
				// AuthContext construction has no error return; after a
				// keystore failure the AKE signs with this zero key pair,
				// and the failure surfaces as a signature the peer rejects.
				kp = domain.LongTermKeyPair{}
			}
			return ake.New(cryptoProvider, akeVersion, localTag, remoteTag, kp)
		},
		NewSMP: func() domain.SmpEngine {
			return smp.New(cryptoProvider)
		},
	}

	return &Wire{
		Identity:    identityStore,
		Fingerprint: fingerprintStore,
		Relay:       relayClient,
		Log:         backend,
		Host:        host,
		Deps:        deps,
		Policy:      policy,

		pollIntervalMS: f.Relay.PollIntervalMS,
	}, nil
}

// NewFacade opens a conversation with peer under account, addressed by a
// freshly generated local instance tag.
func (w *Wire) NewFacade(account, peer string) (*session.Facade, error) {
	localTag, err := domain.GenerateInstanceTag()
	if err != nil {
		return nil, fmt.Errorf("app: generating instance tag: %w", err)
	}
	id := domain.SessionID{Account: account, Peer: peer, Protocol: "im"}
	return session.NewFacade(w.Deps, id, localTag), nil
}
