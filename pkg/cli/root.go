package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/soaptrace/pkg/cliconfig"
	"github.com/getmockd/soaptrace/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app carries the state shared by every command of one invocation.
type app struct {
	// Persistent flags available to all subcommands
	configPath string
	flagCfg    cliconfig.CLIConfig

	cfg    *cliconfig.CLIConfig
	logger *slog.Logger
	closer io.Closer
}

// globalFlags maps persistent flag names to the config keys they set.
var globalFlags = map[string]string{
	"log-level":  "logLevel",
	"log-format": "logFormat",
	"log-file":   "logFile",
	"catalog":    "catalog",
	"json":       "json",
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Nop()}

	rootCmd := &cobra.Command{
		Use:   "soaptrace",
		Short: "soaptrace reads SOAP traffic captures and resolves their actions",
		Long: `soaptrace reconstructs the ordered stream of SOAP requests recorded in a
service message log (.svclog) or an HTTP debugger session export (.txt), and
resolves each request's action to the contract operation that handles it and
the client proxy method that sends it.

Configuration can be provided via flags, SOAPTRACE_* environment variables,
a local .soaptracerc.yaml, or $XDG_CONFIG_HOME/soaptrace/config.yaml.`,
		SilenceUsage:      true,
		SilenceErrors:     true, // We handle errors in Execute()
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: .soaptracerc.yaml, then the global config)")
	flags.StringVar(&a.flagCfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	flags.StringVar(&a.flagCfg.LogFormat, "log-format", "", "Log format: text, json (default: text)")
	flags.StringVar(&a.flagCfg.LogFile, "log-file", "", "Also append JSON logs to this file")
	flags.StringVar(&a.flagCfg.Catalog, "catalog", "", "Catalog manifest used to resolve actions")
	flags.BoolVar(&a.flagCfg.JSON, "json", false, "Output command results in JSON format")

	rootCmd.AddCommand(
		newParseCmd(a),
		newResolveCmd(a),
		newCatalogCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the layered configuration, applies changed flags on top and
// opens the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := cliconfig.LoadAll(a.configPath)
	if err != nil {
		return err
	}

	a.flagCfg.SetFields = make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := globalFlags[f.Name]; ok {
			a.flagCfg.SetFields[key] = true
		}
		if key, ok := commandFlags[f.Name]; ok {
			a.flagCfg.SetFields[key] = true
		}
	})
	cliconfig.MergeConfig(cfg, a.changedFlags(), cliconfig.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level, _ := logging.LookupLevel(cfg.LogLevel)
	format, _ := logging.LookupFormat(cfg.LogFormat)
	logger, closer, err := logging.Open(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
		File:   cfg.LogFile,
	})
	if err != nil {
		return err
	}
	a.logger = logger.With("command", cmd.Name())
	a.closer = closer
	return nil
}

// changedFlags returns the flag values the user actually set. Unset string
// flags are blanked so MergeConfig skips them.
func (a *app) changedFlags() *cliconfig.CLIConfig {
	set := a.flagCfg.SetFields
	pick := func(key, v string) string {
		if set[key] {
			return v
		}
		return ""
	}
	return &cliconfig.CLIConfig{
		LogLevel:  pick("logLevel", a.flagCfg.LogLevel),
		LogFormat: pick("logFormat", a.flagCfg.LogFormat),
		LogFile:   pick("logFile", a.flagCfg.LogFile),
		Catalog:   pick("catalog", a.flagCfg.Catalog),
		Sides:     pick("sides", a.flagCfg.Sides),
		Format:    pick("format", a.flagCfg.Format),
		JSON:      a.flagCfg.JSON,
		SetFields: set,
	}
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
