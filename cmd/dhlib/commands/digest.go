package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/boundary"
)

// digest <shared>: hash a decimal shared secret.
func digestCmd() *cobra.Command {
	var modulus string
	cmd := &cobra.Command{
		Use:   "digest <shared>",
		Short: "Hash a decimal shared secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return boundary.Scope(appCtx.Engine, func(a *boundary.Arena) error {
				var (
					d   *boundary.Buffer
					err error
				)
				if modulus != "" {
					d, err = a.HashSharedModulus(args[0], modulus)
				} else {
					d, err = a.HashShared(args[0])
				}
				if err != nil {
					return err
				}
				fmt.Println(d.MustString())
				return d.Release()
			})
		},
	}
	cmd.Flags().StringVar(&modulus, "modulus", "", "pad to the width of this decimal modulus")
	return cmd
}
