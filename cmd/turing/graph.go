package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the transition table as a Mermaid flowchart",
	Long: `Builds a machine (deterministic, or random with --random and --seed) and prints
the states reachable from 'a' as a Mermaid flowchart. Paste the output into any
Mermaid renderer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := []turing.Option{turing.WithLogger(a.logger)}
		if a.cfg.Seed != 0 {
			opts = append(opts, turing.WithSeed(a.cfg.Seed))
		}
		eng := turing.New(opts...)
		eng.Reset(a.cfg.Random)

		if a.cfg.Random {
			fmt.Fprintf(cmd.OutOrStdout(), "%%%% seed %d\n", eng.Seed())
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Snapshot().Rules, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().BoolP("random", "r", false, "Draw a random transition table")
	graphCmd.Flags().Uint64("seed", 0, "Seed for the random table (0 picks one)")
}
