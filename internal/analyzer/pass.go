package analyzer

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/session"
	"github.com/funvibe/implres/internal/symbols"
)

// BodyResolver is the full resolution step for one declaration: it type-checks
// the body and returns the transformed declaration with its return type filled
// in. It may call scope.TypeOf for other declarations, re-entering the pass.
type BodyResolver interface {
	ResolveBody(scope *Scope, decl ast.Callable) (ast.Callable, error)
}

// BodyResolverFunc adapts a function to BodyResolver.
type BodyResolverFunc func(scope *Scope, decl ast.Callable) (ast.Callable, error)

func (f BodyResolverFunc) ResolveBody(scope *Scope, decl ast.Callable) (ast.Callable, error) {
	return f(scope, decl)
}

// Pass is the state of one whole-program implicit type resolution. Every
// walker of the pass shares its session and calculator. A Pass is used by a
// single goroutine and discarded after Run.
type Pass struct {
	ID uuid.UUID

	session    *session.Session
	provider   symbols.Provider
	body       BodyResolver
	calculator *ReturnTypeCalculator
	graph      *DependencyGraph
	logger     *log.Logger

	inProgress  []ast.Callable // Resolutions on the current call chain, innermost last
	files       map[*ast.Symbol]string
	diagnostics []*diagnostics.DiagnosticError
	bodyCalls   int
}

// Option configures a Pass.
type Option func(*Pass)

// WithLogger sets the pass logger. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(p *Pass) { p.logger = l }
}

// WithID overrides the generated pass ID.
func WithID(id uuid.UUID) Option {
	return func(p *Pass) { p.ID = id }
}

func NewPass(provider symbols.Provider, body BodyResolver, opts ...Option) *Pass {
	p := &Pass{
		ID:       uuid.New(),
		session:  session.New(),
		provider: provider,
		body:     body,
		graph:    NewDependencyGraph(),
		logger:   log.New(io.Discard, "", 0),
		files:    make(map[*ast.Symbol]string),
	}
	p.calculator = &ReturnTypeCalculator{pass: p}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session exposes the status store of the pass.
func (p *Pass) Session() *session.Session { return p.session }

// Calculator is the return type calculator shared by every walker of the pass.
func (p *Pass) Calculator() *ReturnTypeCalculator { return p.calculator }

// Graph holds the dependency edges discovered so far.
func (p *Pass) Graph() *DependencyGraph { return p.graph }

// Diagnostics returns the recoverable problems recorded so far, in order.
func (p *Pass) Diagnostics() []*diagnostics.DiagnosticError { return p.diagnostics }

// BodyResolutions counts calls of the body resolver.
func (p *Pass) BodyResolutions() int { return p.bodyCalls }

// Run resolves every file in order. A contract violation aborts the pass and
// is returned as a *diagnostics.InternalError.
func (p *Pass) Run(files ...*ast.File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*diagnostics.InternalError)
			if !ok {
				panic(r)
			}
			p.logger.Printf("pass %s aborted: %v", p.ID, ie)
			err = ie
		}
	}()
	for _, f := range files {
		p.ResolveFile(f)
	}
	return nil
}

// report records a diagnostic against the declaration currently being resolved.
func (p *Pass) report(d *diagnostics.DiagnosticError) {
	if cur := p.current(); cur != nil {
		d = d.At(p.fileOf(cur.Symbol()), cur.Symbol().String())
	}
	p.diagnostics = append(p.diagnostics, d)
}

func (p *Pass) current() ast.Callable {
	if len(p.inProgress) == 0 {
		return nil
	}
	return p.inProgress[len(p.inProgress)-1]
}

func (p *Pass) fileOf(sym *ast.Symbol) string {
	if path, ok := p.files[sym]; ok {
		return path
	}
	if f := p.provider.ContainerFile(sym); f != nil {
		p.files[sym] = f.Path
		return f.Path
	}
	return ""
}

func (p *Pass) push(c ast.Callable) {
	p.inProgress = append(p.inProgress, c)
}

func (p *Pass) pop(c ast.Callable) {
	top := p.current()
	if top == nil || top.Symbol() != c.Symbol() {
		panic(diagnostics.Internalf("resolve", "unbalanced resolution stack at %s", c.Symbol()))
	}
	p.inProgress = p.inProgress[:len(p.inProgress)-1]
}

func (p *Pass) String() string {
	return fmt.Sprintf("pass %s", p.ID)
}
