package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/scriptlens/internal/config"
	"github.com/dhamidi/scriptlens/script/codebase"
)

const version = "0.1.0"

// app carries the configuration resolved before any subcommand runs.
type app struct {
	envFile    string
	verbosity  int
	logFile    string
	dictionary string
	semicolons bool

	cfg  *config.Config
	dict *config.Dictionary
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "scriptlens",
		Short:             "Structural parser and language server for provider scripts",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "load settings from this .env file")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&a.dictionary, "dictionary", "", "JSON file with known objects and documentation")
	flags.BoolVar(&a.semicolons, "semicolons", false, "warn about statements missing a ';'")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newOutlineCmd(a))
	rootCmd.AddCommand(newAtCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.LogVerbosity = a.verbosity
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("dictionary") {
		cfg.KnownObjects = a.dictionary
	}
	if flags.Changed("semicolons") {
		cfg.SemicolonCheck = a.semicolons
	}
	a.cfg = cfg

	var logFile *string
	if cfg.LogFile != "" {
		logFile = &cfg.LogFile
	}
	commonlog.Configure(cfg.LogVerbosity, logFile)

	if cfg.KnownObjects != "" {
		dict, err := config.LoadDictionary(cfg.KnownObjects)
		if err != nil {
			return fmt.Errorf("load dictionary: %w", err)
		}
		a.dict = dict
	}
	return nil
}

// options translates the configuration into codebase options.
func (a *app) options() []codebase.Option {
	opts := []codebase.Option{
		codebase.WithSemicolonCheck(a.cfg.SemicolonCheck),
		codebase.WithExtensions(a.cfg.Extensions),
	}
	if a.dict != nil {
		opts = append(opts, codebase.WithMembers(a.dict), codebase.WithDocs(a.dict))
	}
	return opts
}

func (a *app) newCodebase(root string) *codebase.Codebase {
	return codebase.New(root, a.options()...)
}

// load parses a single file into a fresh codebase rooted at its directory.
func (a *app) load(path string) (*codebase.Codebase, *codebase.FileInfo, error) {
	c := a.newCodebase(".")
	f, err := c.ScanFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c, f, nil
}
