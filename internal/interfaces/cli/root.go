// Package cli implements the dockprep command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anhth20011/dockprep/internal/config"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global CLI flags.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// runtimeDeps carries the initialized dependencies through the command tree.
type runtimeDeps struct {
	cfg *config.Config
	log logging.Logger
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	deps := &runtimeDeps{}

	cmd := &cobra.Command{
		Use:   "dockprep",
		Short: "dockprep — prepare self-contained molecular docking job packages",
		Long: "dockprep assembles everything an AutoDock Vina run needs into a single\n" +
			"portable archive: the engine configuration, structure-preparation scripts\n" +
			"for both Unix and Windows hosts, and the raw input structures. It also\n" +
			"parses result logs and validates engine paths.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return deps.init(opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "shorthand for --log-level debug")

	cmd.AddCommand(
		newPrepareCmd(deps),
		newParseCmd(deps),
		newValidatePathCmd(deps),
	)
	return cmd
}

// init loads the configuration and builds the logger. CLI runs log to stderr
// in console format so stdout stays clean for command output.
func (d *runtimeDeps) init(opts *rootOptions) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logCfg := cfg.Log
	logCfg.Format = "console"
	logCfg.OutputPaths = []string{"stderr"}
	if opts.Verbose {
		logCfg.Level = "debug"
	} else if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	d.cfg = cfg
	d.log = log.Named("cli")
	return nil
}
