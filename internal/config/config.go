// Package config provides this module's on-disk TOML configuration: the
// session Policy defaults, the identity keystore location, and the
// relay transport a default Host implementation dials out to.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	domain "gotr/internal/domain"
)

const (
	defaultLogLevel = "NOTICE"
	defaultProtocol = "im"
)

// Logging controls where and how verbosely this process logs.
type Logging struct {
	Disable bool   `toml:"disable"`
	File    string `toml:"file"`
	Level   string `toml:"level"`
}

// Relay configures the store-and-forward transport used to carry OTR
// wire frames between accounts that are not simultaneously online.
type Relay struct {
	// URL is the relay's base address, e.g. "http://127.0.0.1:8080".
	URL string `toml:"url"`
	// PollIntervalMS is how often, in milliseconds, to poll for new
	// frames while a chat session is open.
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// Account names a local identity: the keystore passphrase is supplied
// separately at runtime, never stored in this file.
type Account struct {
	Name     string `toml:"name"`
	Protocol string `toml:"protocol"`
}

// Session holds the domain.Policy this process applies to every
// SessionID; there are no per-peer overrides.
type Session struct {
	AllowV1            bool `toml:"allow_v1"`
	AllowV2            bool `toml:"allow_v2"`
	AllowV3            bool `toml:"allow_v3"`
	RequireEncryption  bool `toml:"require_encryption"`
	SendWhitespaceTag  bool `toml:"send_whitespace_tag"`
	WhitespaceStartAKE bool `toml:"whitespace_start_ake"`
	ErrorStartAKE      bool `toml:"error_start_ake"`
	// MaxFragmentSize bounds outgoing transport frames; 0 means
	// unbounded (no fragmentation).
	MaxFragmentSize int `toml:"max_fragment_size"`
}

// Policy converts the configured defaults into a domain.Policy.
func (s Session) Policy() domain.Policy {
	return domain.Policy{
		AllowV1:            s.AllowV1,
		AllowV2:            s.AllowV2,
		AllowV3:            s.AllowV3,
		RequireEncryption:  s.RequireEncryption,
		SendWhitespaceTag:  s.SendWhitespaceTag,
		WhitespaceStartAKE: s.WhitespaceStartAKE,
		ErrorStartAKE:      s.ErrorStartAKE,
	}
}

// Config is the top-level on-disk configuration.
type Config struct {
	DataDir string  `toml:"data_dir"`
	Account Account `toml:"account"`
	Session Session `toml:"session"`
	Relay   Relay   `toml:"relay"`
	Logging Logging `toml:"logging"`
}

func defaultConfig() *Config {
	return &Config{
		Account: Account{Protocol: defaultProtocol},
		Session: Session{
			AllowV2:         true,
			AllowV3:         true,
			MaxFragmentSize: 0,
		},
		Logging: Logging{Level: defaultLogLevel},
	}
}

// FixupAndValidate fills in defaults left unset and rejects a config
// that cannot be used to build a Wire.
func (c *Config) FixupAndValidate() error {
	if c.Account.Name == "" {
		return errors.New("config: account.name is not set")
	}
	if c.Account.Protocol == "" {
		c.Account.Protocol = defaultProtocol
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir is not set")
	}
	if !filepath.IsAbs(c.DataDir) {
		return fmt.Errorf("config: data_dir %q is not an absolute path", c.DataDir)
	}
	if !c.Session.AllowV2 && !c.Session.AllowV3 {
		return errors.New("config: session must allow at least one of v2, v3")
	}
	if c.Relay.PollIntervalMS <= 0 {
		c.Relay.PollIntervalMS = 2000
	}
	return nil
}

// Load parses and validates b as a config file body.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: nil buffer")
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
