package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dhlib/internal/domain"
	"dhlib/internal/services/bench"
)

// bench <check>: self-tests and timings.
func benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run self-tests and timings",
	}
	cmd.PersistentFlags().Int("from", 0, "smallest modulus size")
	cmd.PersistentFlags().Int("to", 0, "largest modulus size")
	cmd.PersistentFlags().Int("step", 0, "size increment")
	cmd.PersistentFlags().Int("bits", 0, "modulus size for fixed-size checks")
	cmd.PersistentFlags().Int("iterations", 0, "repetitions per check")
	cmd.PersistentFlags().Int("workers", 0, "concurrent exchanges")

	cmd.AddCommand(
		benchSub("speed", "Time full exchanges across sizes", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			c := appCtx.Config.Bench
			return r.Speed(intFlag(cmd, "from", c.From), intFlag(cmd, "to", c.To), intFlag(cmd, "step", c.Step))
		}),
		benchSub("stress", "Run concurrent exchanges", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			c := appCtx.Config.Bench
			return r.Stress(intFlag(cmd, "workers", c.Workers), intFlag(cmd, "bits", c.Bits))
		}),
		benchSub("leak", "Watch heap growth across exchanges", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			c := appCtx.Config.Bench
			return r.Leak(intFlag(cmd, "iterations", c.Iterations), intFlag(cmd, "bits", c.Bits), c.Threshold)
		}),
		benchSub("primality", "Cross-check generated primes", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			c := appCtx.Config.Bench
			return r.Primality(intFlag(cmd, "from", c.From), intFlag(cmd, "to", c.To),
				intFlag(cmd, "step", c.Step), intFlag(cmd, "iterations", c.Iterations))
		}),
		benchSub("invalid", "Feed malformed input to every operation", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			return r.Invalid()
		}),
		benchSub("interop", "Exchange against an independent implementation", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			return r.Interop(intFlag(cmd, "group", 14))
		}, func(cmd *cobra.Command) {
			cmd.Flags().Int("group", 14, "well-known group")
		}),
		benchSub("loopback", "Handshake over a local HTTP responder", func(cmd *cobra.Command, r *bench.Runner) bench.Report {
			bits := intFlag(cmd, "bits", appCtx.Config.Bench.Bits)
			return r.Loopback(cmd.Context(), domain.HandshakeRequest{Bits: bits}, bits)
		}),
	)
	return cmd
}

func benchSub(
	name, short string,
	run func(cmd *cobra.Command, r *bench.Runner) bench.Report,
	flags ...func(cmd *cobra.Command),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := run(cmd, appCtx.Bench)
			rep.Print(os.Stdout)
			if !rep.OK() {
				return fmt.Errorf("%s: %d bug(s)", rep.Name, len(rep.Bugs))
			}
			return nil
		},
	}
	for _, f := range flags {
		f(cmd)
	}
	return cmd
}
