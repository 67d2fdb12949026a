package modules

import (
	"github.com/funvibe/implres/internal/pipeline"
)

// LoaderProcessor loads ctx.Path into ctx.Files.
type LoaderProcessor struct {
	Loader *Loader
}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	loader := lp.Loader
	if loader == nil {
		loader = NewLoader()
	}
	mod, err := loader.Load(ctx.Path)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Files = append(ctx.Files, mod.AllFiles()...)
	ctx.Logger.Printf("loaded %d declaration files from %s", len(ctx.Files), ctx.Path)
	return ctx
}
