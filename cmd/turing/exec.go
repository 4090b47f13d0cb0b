package main

import (
	"context"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// DefaultExecTicks bounds headless runs when neither flag nor config does.
const DefaultExecTicks = 1_000_000

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Run a machine headless and print the result",
	Long: `Resets a machine, runs it without delay until it halts or the tick limit is
reached and prints a summary. Use --trace for one line per tick and --json
for JSON lines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.MaxTicks == 0 {
			a.cfg.MaxTicks = DefaultExecTicks
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		trace, _ := cmd.Flags().GetBool("trace")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		store, closeStore, err := cli.OpenStore(ctx, a.cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		_, err = cli.Exec(ctx, cli.ExecOptions{
			Config: a.cfg,
			Logger: a.logger,
			Debug:  a.debug,
			Store:  store,
			JSON:   jsonMode,
			Trace:  trace,
			Output: cmd.OutOrStdout(),
		})
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	addMachineFlags(execCmd)
	addStoreFlags(execCmd)
	execCmd.Flags().Bool("json", false, "Print JSON lines")
	execCmd.Flags().Bool("trace", false, "Print every tick")
}
