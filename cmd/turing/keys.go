package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "help-keys",
	Short: "Show the key bindings of the interactive explorer",
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		width, _ := cmd.Flags().GetInt("width")

		out := termenv.NewOutput(cmd.OutOrStdout())
		tui.PrintBanner(out, out.EnvColorProfile())

		text, err := tui.RenderHelp(width, style)
		if err != nil {
			return fmt.Errorf("failed to render help: %w", err)
		}
		fmt.Fprint(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().String("style", "auto", "Glamour style: auto, dark, light, notty")
	keysCmd.Flags().Int("width", tui.Width, "Word wrap width")
}
