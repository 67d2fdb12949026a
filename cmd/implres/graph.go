package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/implres/internal/analyzer"
	"github.com/funvibe/implres/internal/pipeline"
)

func newGraphCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Write the discovered dependency graph in DOT format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			cfg, err := opts.loadConfig(cmd, target)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.GraphOut = out
			}

			ctx := runPipeline(target, cfg)
			if ctx.Failed() {
				return ctx.Errors[0]
			}

			var w io.Writer = cmd.OutOrStdout()
			if cfg.GraphOut != "" {
				f, err := os.Create(cfg.GraphOut)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return dependencyGraph(ctx).WriteDOT(w)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the graph to this file instead of stdout")
	return cmd
}

// dependencyGraph rebuilds the graph of a run, with every callable as a vertex.
func dependencyGraph(ctx *pipeline.PipelineContext) *analyzer.DependencyGraph {
	g := analyzer.NewDependencyGraph()
	for _, r := range ctx.Resolutions {
		g.AddVertex(r.Symbol)
	}
	for _, d := range ctx.Dependencies {
		g.AddEdge(d.From, d.To)
	}
	return g
}
