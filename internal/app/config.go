package app

import (
	"net/http"

	"gotr/internal/config"
)

// Config holds runtime wiring options for building a Wire.
type Config struct {
	File       config.Config // parsed on-disk configuration
	Passphrase string        // unlocks the identity keystore; never persisted
	HTTP       *http.Client  // optional; defaults to http.DefaultClient
}
