package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a single-tape Turing machine explorer",
	Long: `Turing simulates a single-tape machine with 16 working states, three halting
states and a six-symbol alphabet. Edit its rules and tape from the keyboard and
watch it run, drive it headless, or serve machines over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (YAML or JSON, default "+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of every machine event")
	rootCmd.PersistentFlags().String("log-file", "", "Append JSON logs to this file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// app carries what every command needs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	debug    bool
	closeLog func() error
}

func (a *app) Close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// loadApp reads the configuration, applies flag overrides and builds the
// logger. console receives text logs (nil means Stderr).
func loadApp(cmd *cobra.Command, console io.Writer) (*app, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(config.DefaultPath)
	}
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, closer, err := cli.CreateLogger(console, cfg.LogLevel, debug, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &app{cfg: cfg, logger: logger, debug: debug, closeLog: closer}, nil
}

// applyFlags copies explicitly set flags over the configuration.
// Commands only register the flags that make sense for them.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	var errs []error
	flags := cmd.Flags()
	set := func(name string, apply func() error) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			errs = append(errs, apply())
		}
	}

	set("log-file", func() (err error) { cfg.LogFile, err = flags.GetString("log-file"); return })
	set("log-level", func() (err error) { cfg.LogLevel, err = flags.GetString("log-level"); return })
	set("random", func() (err error) { cfg.Random, err = flags.GetBool("random"); return })
	set("seed", func() (err error) { cfg.Seed, err = flags.GetUint64("seed"); return })
	set("tick-delay", func() (err error) { cfg.TickDelay, err = flags.GetDuration("tick-delay"); return })
	set("max-ticks", func() (err error) { cfg.MaxTicks, err = flags.GetInt("max-ticks"); return })
	set("store", func() (err error) { cfg.Store.Kind, err = flags.GetString("store"); return })
	set("store-path", func() (err error) { cfg.Store.Path, err = flags.GetString("store-path"); return })
	set("redis-addr", func() (err error) { cfg.Store.RedisAddr, err = flags.GetString("redis-addr"); return })
	set("addr", func() (err error) { cfg.HTTP.Addr, err = flags.GetString("addr"); return })

	return errors.Join(errs...)
}

// addMachineFlags registers the flags shared by commands that create a machine.
func addMachineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("random", "r", false, "Start with a random transition table")
	cmd.Flags().Uint64("seed", 0, "Seed for random tables (0 picks one)")
	cmd.Flags().Int("max-ticks", 0, "Stop a run after this many ticks (0 = unlimited)")
}

// addStoreFlags registers the run history flags.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Run history store: none, memory, file, redis")
	cmd.Flags().String("store-path", "", "Directory of the file store")
	cmd.Flags().String("redis-addr", "", "Address of the redis store")
}
