package main

import (
	"context"
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show one",
	Long: `Reads run records from the configured store (file or redis; the memory store
only lives as long as one process). Records carry outcomes, never rule tables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.Store.Kind == config.StoreNone {
			return fmt.Errorf("run history is disabled (store kind %q)", a.cfg.Store.Kind)
		}

		ctx := context.Background()
		store, closeStore, err := cli.OpenStore(ctx, a.cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		jsonMode, _ := cmd.Flags().GetBool("json")

		var records []*domain.RunRecord
		if len(args) == 1 {
			rec, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			records = append(records, rec)
		} else {
			records, err = cli.LoadHistory(ctx, store)
			if err != nil {
				return err
			}
		}
		return cli.PrintHistory(cmd.OutOrStdout(), records, jsonMode)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	addStoreFlags(historyCmd)
	historyCmd.Flags().Bool("json", false, "Print JSON")
}
