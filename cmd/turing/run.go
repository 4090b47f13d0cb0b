package main

import (
	"context"
	"errors"
	"io"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive machine explorer",
	Long: `Opens the full-screen explorer. SPACE runs and pauses the machine, '.' takes a
single tick, 'i' and 'r' reset it and '?' lists every key. Logs only go to
--log-file while the screen is open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, io.Discard)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		store, closeStore, err := cli.OpenStore(ctx, a.cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		err = cli.RunInteractive(ctx, cli.InteractiveOptions{
			Config: a.cfg,
			Logger: a.logger,
			Debug:  a.debug,
			Store:  store,
		})
		if errors.Is(err, cli.ErrNotTerminal) {
			return err
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addMachineFlags(runCmd)
	addStoreFlags(runCmd)
	runCmd.Flags().Duration("tick-delay", 0, "Pause between ticks while running (default from config, 50ms)")

	// 'run' is the default when no command is given.
	rootCmd.RunE = runCmd.RunE
	addMachineFlags(rootCmd)
	addStoreFlags(rootCmd)
	rootCmd.Flags().Duration("tick-delay", 0, "Pause between ticks while running (default from config, 50ms)")
}
