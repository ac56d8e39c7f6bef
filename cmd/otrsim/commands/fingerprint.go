package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"gotr/internal/crypto"
	"gotr/internal/store"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint [peer]",
		Short: "Print the local identity fingerprint, or a remembered peer's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				kp, err := store.LoadOrCreate(appCtx.Wire.Identity, passphrase)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", account, crypto.Fingerprint(kp.Public[:]))
				return nil
			}

			peer := args[0]
			fp, ok, err := appCtx.Wire.Fingerprint.Lookup(account, peer)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no remembered fingerprint for %s", peer)
			}
			verified := "unverified"
			if fp.Verified {
				verified = "verified"
			}
			fmt.Printf("%s: %s (%s)\n", peer, fp.Fingerprint, verified)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "trust <peer>",
		Short: "Mark a remembered peer fingerprint as verified out-of-band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := appCtx.Wire.Fingerprint.MarkVerified(account, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no remembered fingerprint for %s", args[0])
			}
			fmt.Println("marked verified")
			return nil
		},
	})
	return cmd
}
