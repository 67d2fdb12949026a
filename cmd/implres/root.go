package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/implres/internal/analyzer"
	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/infer"
	"github.com/funvibe/implres/internal/modules"
	"github.com/funvibe/implres/internal/pipeline"
	"github.com/funvibe/implres/internal/report"
	"github.com/funvibe/implres/internal/utils"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	color      string
	verbose    bool
	reportDB   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "implres",
		Short:         "Resolve implicit return types of declarations on demand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "project config (default <dir>/"+config.ConfigFileName+")")
	root.PersistentFlags().StringVar(&opts.color, "color", "", "colorize diagnostics: auto|always|never")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pass progress to stderr")
	root.PersistentFlags().StringVar(&opts.reportDB, "db", "", "record the pass in this SQLite database")

	root.AddCommand(newResolveCmd(opts), newGraphCmd(opts), newWatchCmd(opts))
	return root
}

func targetArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

// loadConfig reads the project config next to target and applies flag overrides.
func (o *globalOptions) loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadConfig(o.configPath)
	} else {
		cfg, err = config.LoadProjectConfig(utils.GetModuleDir(target))
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if flags.Changed("db") {
		cfg.ReportDB = o.reportDB
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	if !cfg.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "", 0)
}

// runPipeline loads target, resolves it and records the report.
func runPipeline(target string, cfg *config.Config) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(target)
	ctx.Config = cfg
	ctx.Logger = newLogger(cfg)

	return pipeline.New(
		&modules.LoaderProcessor{},
		&analyzer.ImplicitTypesProcessor{Body: infer.New()},
		&report.Processor{},
	).Run(ctx)
}
