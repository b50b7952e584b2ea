package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhlib/internal/boundary"
)

// exchange: run both parties locally and show that they agree.
func exchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Run a local two-party exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			bits := intFlag(cmd, "bits", appCtx.Config.Engine.Bits)
			return boundary.Scope(appCtx.Engine, func(a *boundary.Arena) error {
				p, g, err := a.GenerateParameters(bits)
				if err != nil {
					return err
				}
				ps, gs := p.MustString(), g.MustString()

				alice, err := party(a, ps, gs)
				if err != nil {
					return fmt.Errorf("alice: %w", err)
				}
				bob, err := party(a, ps, gs)
				if err != nil {
					return fmt.Errorf("bob: %w", err)
				}

				da, err := agree(a, ps, gs, alice.secret, bob.public)
				if err != nil {
					return fmt.Errorf("alice: %w", err)
				}
				db, err := agree(a, ps, gs, bob.secret, alice.public)
				if err != nil {
					return fmt.Errorf("bob: %w", err)
				}

				fmt.Printf("p       = %s\ng       = %s\n", ps, gs)
				fmt.Printf("alice A = %s\nbob   B = %s\n", alice.public, bob.public)
				fmt.Printf("alice   = %s\nbob     = %s\n", da, db)
				if da != db {
					return fmt.Errorf("digests differ")
				}
				fmt.Println("match")
				return nil
			})
		},
	}
	cmd.Flags().Int("bits", 0, "modulus size in bits (default from config)")
	return cmd
}

type keyText struct {
	secret string
	public string
}

func party(a *boundary.Arena, p, g string) (keyText, error) {
	s, err := a.GenerateSecret(p, g)
	if err != nil {
		return keyText{}, err
	}
	pub, err := a.GeneratePublic(p, g, s.MustString())
	if err != nil {
		return keyText{}, err
	}
	return keyText{secret: s.MustString(), public: pub.MustString()}, nil
}

func agree(a *boundary.Arena, p, g, secret, peer string) (string, error) {
	shared, err := a.ComputeShared(peer, p, g, secret)
	if err != nil {
		return "", err
	}
	defer shared.Release()
	d, err := a.HashSharedModulus(shared.MustString(), p)
	if err != nil {
		return "", err
	}
	defer d.Release()
	return d.MustString(), nil
}
