// Package commands implements the otrsim CLI: a small interactive
// client that exercises the OTR session engine over a relay.Client
// transport, for manual testing and demonstration.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gotr/internal/app"
	"gotr/internal/config"
)

var (
	home       string
	passphrase string
	account    string
	relayURL   string

	appCtx *app.App
)

// Execute builds and runs the root otrsim command.
func Execute() error {
	root := &cobra.Command{
		Use:   "otrsim",
		Short: "A small interactive OTR chat client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".otrsim")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if account == "" {
				return fmt.Errorf("--account is required")
			}
			if passphrase == "" {
				return fmt.Errorf("--passphrase (-p) is required")
			}

			cfg := config.Config{
				DataDir: home,
				Account: config.Account{Name: account, Protocol: "im"},
				Session: config.Session{
					AllowV2: true, AllowV3: true,
				},
				Relay:   config.Relay{URL: relayURL, PollIntervalMS: 1000},
				Logging: config.Logging{Level: "NOTICE"},
			}
			if err := cfg.FixupAndValidate(); err != nil {
				return err
			}

			var err error
			appCtx, err = app.New(account, app.Config{File: cfg, Passphrase: passphrase})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data directory (default ~/.otrsim)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity keystore")
	root.PersistentFlags().StringVar(&account, "account", "", "local account name")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")

	root.AddCommand(initCmd(), fingerprintCmd(), chatCmd())
	return root.Execute()
}
