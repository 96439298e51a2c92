/*

	Mnemonic:	ferrysim
	Abstract:	Command line entry point. A single command, no required
				arguments (spec section 6); exits 0 on normal drain, non-zero
				on startup failure. Built with Cobra/Viper the way the
				example corpus's service entry points are, replacing tegu's
				flag.Parse()-driven main/tegu.go.

	Date:		29 July 2026
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imLinguin/ferry-simulation/internal/config"
	"github.com/imLinguin/ferry-simulation/internal/supervisor"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ferrysim",
		Short: "Ferry terminal concurrency simulation",
		Long: "ferrysim simulates a ferry terminal as a set of cooperating\n" +
			"concurrent actors: ferries, passengers, and a gender-segregated\n" +
			"security allocator, coordinated by a dock turn-token and a\n" +
			"priority boarding ramp.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	return cmd
}

func run(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ferrysim: startup diagnostic: %w", err)
	}

	snapshot, err := supervisor.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ferrysim: %w", err)
	}

	fmt.Println(supervisor.Summary(snapshot))
	return nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
