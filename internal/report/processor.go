package report

import (
	"context"
	"time"

	"github.com/funvibe/implres/internal/pipeline"
)

// Processor writes the pass results to the configured report database.
// It does nothing when no database is configured or the run failed.
type Processor struct {
	Now func() time.Time
}

func (rp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.Config == nil || ctx.Config.ReportDB == "" {
		return ctx
	}
	now := time.Now
	if rp.Now != nil {
		now = rp.Now
	}

	bg := context.Background()
	store, err := Open(bg, ctx.Config.ReportDB)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	defer store.Close()

	err = store.RecordPass(bg, Run{
		ID:           ctx.PassID,
		Path:         ctx.Path,
		FinishedAt:   now(),
		Resolutions:  ctx.Resolutions,
		Diagnostics:  ctx.Diagnostics,
		Dependencies: ctx.Dependencies,
	})
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Logger.Printf("recorded pass %s in %s", ctx.PassID, ctx.Config.ReportDB)
	return ctx
}
