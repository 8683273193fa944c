// Package main provides the rdfterm binary, a command line front end to the
// term storage: it parses, interns, compares and evaluates literals.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/rdfcore/pkg/config"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

const (
	Version = "0.1.0"
	appName = "rdfterm"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs. It is filled in by the root
// command before a subcommand runs.
type app struct {
	configPath string
	logLevel   string
	lenient    bool

	cfg     *config.Config
	logger  *slog.Logger
	storage *store.NodeStorage
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect RDF term interning and literal datatypes",
		Long: `rdfterm interns RDF terms the way the storage core does and shows
the result: canonical lexical forms, datatype tags, whether a literal
was inlined into its handle and the raw handle bits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.lenient, "lenient", false, "Clamp out-of-range literal values instead of rejecting them")

	cmd.AddCommand(
		literalCmd(a),
		compareCmd(a),
		evalCmd(a),
		datatypesCmd(a),
		demoCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.lenient {
		cfg.LenientParsing = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Apply()
	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	a.storage = store.New(cfg.StoreOptions(a.logger)...)
	a.logger.Debug("configuration loaded",
		slog.String("path", a.configPath),
		slog.Bool("lenient_parsing", cfg.LenientParsing),
		slog.Bool("synchronized", cfg.Synchronized))
	return nil
}

func (a *app) teardown() error {
	if a.storage == nil {
		return nil
	}
	err := a.storage.Close()
	a.storage = nil
	return err
}
