package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/crypto"
)

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Inspect sealed keys",
	}
	cmd.AddCommand(keyShowCmd(), keyListCmd())
	return cmd
}

// key show <name>: unseal a saved key and print it.
func keyShowCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved key's fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			key, err := appCtx.Keys.LoadKey(args[0], passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(key))
			if reveal {
				fmt.Printf("Key:         %s\n", hex.EncodeToString(key))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "also print the key in hex")
	return cmd
}

func keyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := appCtx.Keys.ListKeys()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}
