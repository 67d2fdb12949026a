package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var printDecls bool

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Resolve every implicit type and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			cfg, err := opts.loadConfig(cmd, target)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("print") {
				cfg.Print = printDecls
			}

			ctx := runPipeline(target, cfg)
			out := cmd.OutOrStdout()
			p := &printer{out: out, color: useColor(cfg.Color, out)}
			if n := p.printResults(ctx); n > 0 {
				return exitCodeError{code: 1, err: fmt.Errorf("%d problem(s) found", n)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printDecls, "print", false, "print the declarations with resolved types")
	return cmd
}
