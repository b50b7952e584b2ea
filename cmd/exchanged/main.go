package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dhlib/internal/app"
	"dhlib/internal/domain"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		bits       int
		group      int
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:          "exchanged",
		Short:        "Standalone Diffie-Hellman handshake responder",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Exchange.Listen = listen
			}
			if bits != 0 {
				cfg.Exchange.Bits = bits
			}
			if group != 0 {
				cfg.Exchange.Group = group
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx, "", func(res domain.Result) {
				a.Logger.WithField("id", res.ID).WithField("fingerprint", res.Fingerprint).Debug("handshake served")
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address")
	cmd.Flags().IntVar(&bits, "bits", 0, "modulus size offered to clients")
	cmd.Flags().IntVar(&group, "group", 0, "pin every handshake to this well-known group")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level")
	return cmd
}
