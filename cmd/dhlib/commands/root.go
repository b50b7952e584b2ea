package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dhlib/internal/app"
)

var (
	configPath string
	home       string
	logLevel   string
	logFile    string
	passphrase string
	appCtx     *app.App
)

// Execute runs the dhlib command tree.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "dhlib",
		Short:        "Finite-field Diffie-Hellman toolkit",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFile != "" {
				cfg.Log.File = logFile
			}

			appCtx, err = app.New(cfg)
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				appCtx.Logger.WithField("path", cfg.Path).Debug("config loaded")
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default: search for "+app.ConfigName+")")
	pf.StringVar(&home, "home", "", "data dir (default ~/.dhlib)")
	pf.StringVar(&logLevel, "log-level", "", "none, debug, info, warning, error or fatal")
	pf.StringVar(&logFile, "log-file", "", "also append logs to this file")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting saved keys")

	root.AddCommand(
		paramsCmd(),
		exchangeCmd(),
		digestCmd(),
		connectCmd(),
		serveCmd(),
		benchCmd(),
		keyCmd(),
	)
	return root
}

// intFlag returns the named flag when the user set it, else fallback.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return fallback
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fallback
	}
	return v
}

func stringFlag(cmd *cobra.Command, name, fallback string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return fallback
	}
	return f.Value.String()
}
