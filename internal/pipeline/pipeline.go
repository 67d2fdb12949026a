package pipeline

import (
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/diagnostics"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// Resolution is the exported outcome for one callable.
type Resolution struct {
	File   string
	Symbol string
	Type   string
	Error  bool
}

// Dependency is one discovered edge between declarations.
type Dependency struct {
	From, To string
}

// PipelineContext carries the state shared by all stages of one run.
type PipelineContext struct {
	Path   string // File or directory given on the command line
	Config *config.Config
	Logger *log.Logger

	Files []*ast.File

	PassID       uuid.UUID
	Resolutions  []Resolution
	Diagnostics  []*diagnostics.DiagnosticError
	Dependencies []Dependency
	Cycles       [][]string

	// Errors are fatal: loading failures, aborted passes, report failures.
	Errors []error
}

func NewPipelineContext(path string) *PipelineContext {
	return &PipelineContext{
		Path:   path,
		Config: config.Default(),
		Logger: log.New(io.Discard, "", 0),
	}
}

// Failed reports whether a fatal error was recorded.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors; stages skip work they cannot do
		// so diagnostics from earlier stages are still collected.
	}
	return ctx
}
