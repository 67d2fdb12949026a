package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/implres/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) line(parts ...string) {
	p.writeIndent()
	for _, s := range parts {
		p.buf.WriteString(s)
	}
	p.buf.WriteString("\n")
}

func (p *CodePrinter) String() string {
	return strings.TrimRight(p.buf.String(), "\n")
}

// PrintFile renders a whole file.
func (p *CodePrinter) PrintFile(f *ast.File) {
	p.line("// ", f.Path)
	p.line("package ", f.Package)
	for _, d := range f.Declarations {
		p.PrintDeclaration(d)
	}
}

func (p *CodePrinter) PrintDeclaration(d ast.Declaration) {
	switch n := d.(type) {
	case *ast.Class:
		p.printClass(n)
	case *ast.Function:
		p.printFunction(n)
	case *ast.Property:
		p.printProperty(n)
	default:
		p.line("/* ", d.TokenLiteral(), " */")
	}
}

func (p *CodePrinter) printClass(c *ast.Class) {
	kw := "class "
	if c.ID.Local {
		kw = "local class "
	}
	if len(c.Body) == 0 {
		p.line(kw, c.ID.ShortName())
		return
	}
	p.line(kw, c.ID.ShortName(), " {")
	p.indent++
	for _, m := range c.Body {
		p.PrintDeclaration(m)
	}
	p.indent--
	p.line("}")
}

func (p *CodePrinter) printFunction(fn *ast.Function) {
	params := make([]string, len(fn.Params))
	for i, vp := range fn.Params {
		params[i] = vp.Name + ": " + vp.ReturnType().String()
	}
	parts := []string{"fun ", fn.Sym.ID.Name, "(", strings.Join(params, ", "), "): ", fn.ReturnType().String()}
	if fn.Body != nil {
		parts = append(parts, " = ", fn.Body.String())
	}
	p.line(parts...)
}

func (p *CodePrinter) printProperty(prop *ast.Property) {
	parts := []string{"val ", prop.Sym.ID.Name, ": ", prop.ReturnType().String()}
	if prop.Initializer != nil {
		parts = append(parts, " = ", prop.Initializer.String())
	}
	p.line(parts...)
}

// Render renders a file or a declaration. Used for fatal diagnostics.
func Render(n ast.Node) string {
	p := NewCodePrinter()
	switch v := n.(type) {
	case *ast.File:
		p.PrintFile(v)
	case ast.Declaration:
		p.PrintDeclaration(v)
	case *ast.ValueParameter:
		p.line(v.Name, ": ", v.ReturnType().String())
	case nil:
		return "<nil>"
	default:
		p.line(n.TokenLiteral())
	}
	return p.String()
}
