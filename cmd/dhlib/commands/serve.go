package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/domain"
)

// serve: answer handshakes until interrupted.
func serveCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a handshake responder",
		RunE: func(cmd *cobra.Command, args []string) error {
			x := &appCtx.Config.Exchange
			x.Bits = intFlag(cmd, "bits", x.Bits)
			x.Group = intFlag(cmd, "group", x.Group)

			var onComplete func(domain.Result)
			if !quiet {
				onComplete = func(res domain.Result) {
					fmt.Printf("%s  %d bits  %s\n", res.ID, res.Params.Bits(), res.Fingerprint)
				}
			}
			return appCtx.Serve(cmd.Context(), stringFlag(cmd, "listen", x.Listen), onComplete)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default from config)")
	cmd.Flags().Int("bits", 0, "modulus size offered to clients")
	cmd.Flags().Int("group", 0, "pin every handshake to this well-known group")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print completed handshakes")
	return cmd
}
