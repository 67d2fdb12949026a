package analyzer

import (
	"github.com/funvibe/implres/internal/pipeline"
	"github.com/funvibe/implres/internal/symbols"
)

// ImplicitTypesProcessor runs one pass over all loaded files and exports the
// results to the pipeline context.
type ImplicitTypesProcessor struct {
	Body BodyResolver
}

func (ip *ImplicitTypesProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || len(ctx.Files) == 0 {
		return ctx
	}

	pass := NewPass(symbols.NewIndex(ctx.Files...), ip.Body, WithLogger(ctx.Logger))
	ctx.PassID = pass.ID
	if err := pass.Run(ctx.Files...); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	for _, r := range Collect(ctx.Files...) {
		ctx.Resolutions = append(ctx.Resolutions, pipeline.Resolution{
			File:   r.File,
			Symbol: r.Symbol.String(),
			Type:   r.Type,
			Error:  r.Error,
		})
	}
	ctx.Diagnostics = append(ctx.Diagnostics, pass.Diagnostics()...)
	for _, e := range pass.Graph().Edges() {
		ctx.Dependencies = append(ctx.Dependencies, pipeline.Dependency{From: e.From, To: e.To})
	}
	ctx.Cycles = pass.Graph().Cycles()
	return ctx
}
