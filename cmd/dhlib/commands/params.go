package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/boundary"
)

// params: generate a safe-prime group, or print a well-known one.
func paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Generate a safe prime and primitive root",
		RunE: func(cmd *cobra.Command, args []string) error {
			if group, _ := cmd.Flags().GetInt("group"); group != 0 {
				params, err := appCtx.Engine.WellKnown(group)
				if err != nil {
					return err
				}
				fmt.Printf("p = %s\ng = %s\n", params.P, params.G)
				return nil
			}

			bits := intFlag(cmd, "bits", appCtx.Config.Engine.Bits)
			return boundary.Scope(appCtx.Engine, func(a *boundary.Arena) error {
				p, g, err := a.GenerateParameters(bits)
				if err != nil {
					return err
				}
				defer boundary.ReleaseAll(p, g)
				fmt.Printf("p = %s\ng = %s\n", p.MustString(), g.MustString())
				return nil
			})
		},
	}
	cmd.Flags().Int("bits", 0, "modulus size in bits (default from config)")
	cmd.Flags().Int("group", 0, "print RFC 2409/3526 group 1, 2, 5 or 14 instead")
	return cmd
}
