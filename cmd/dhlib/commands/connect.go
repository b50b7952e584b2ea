package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/domain"
)

// connect: run a handshake against a responder and optionally save the key.
func connectCmd() *cobra.Command {
	var (
		trust bool
		save  string
	)
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Perform a handshake with a remote responder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if save != "" && passphrase == "" {
				return fmt.Errorf("passphrase required (-p) with --save")
			}
			appCtx.Client.Base = stringFlag(cmd, "server", appCtx.Config.Exchange.Server)
			if cmd.Flags().Changed("trust") {
				appCtx.Handshake.Trust = trust
			}

			req := domain.HandshakeRequest{
				Bits:  intFlag(cmd, "bits", 0),
				Group: intFlag(cmd, "group", 0),
			}
			res, err := appCtx.Handshake.Handshake(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Handshake:   %s\n", res.ID)
			fmt.Printf("Bits:        %d\n", res.Params.Bits())
			fmt.Printf("Digest:      %s\n", res.Digest)
			fmt.Printf("Fingerprint: %s\n", res.Fingerprint)
			if save == "" {
				return nil
			}
			if err := appCtx.Keys.SaveKey(save, passphrase, res.Key); err != nil {
				return err
			}
			fmt.Printf("saved key %q\n", save)
			return nil
		},
	}
	cmd.Flags().String("server", "", "responder base URL (e.g. http://127.0.0.1:8080)")
	cmd.Flags().Int("bits", 0, "requested modulus size")
	cmd.Flags().Int("group", 0, "requested well-known group")
	cmd.Flags().BoolVar(&trust, "trust", false, "skip the safe-prime check on the offered group")
	cmd.Flags().StringVar(&save, "save", "", "seal the derived key under this name")
	return cmd
}
