package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"gotr/internal/crypto"
	"gotr/internal/store"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate and store the local long-term identity key",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := store.LoadOrCreate(appCtx.Wire.Identity, passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Identity ready.\nFingerprint: %s\n", crypto.Fingerprint(kp.Public[:]))
			return nil
		},
	}
}
