package modules

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/typesystem"
)

// A declaration file describes one file of a project:
//
//	package: demo
//	declarations:
//	  - fun: twice
//	    params: [{name: x, type: Int}]
//	    body: {call: plus, args: [x, x]}
//	  - val: answer
//	    type: Int
//	  - class: Outer
//	    members:
//	      - val: z
//	        init: {lit: String}
//
// Omitting type leaves the declaration implicit. An expression is either a
// scalar (a reference) or a mapping with exactly one of lit, ref, call,
// block, if.

type fileSpec struct {
	Package      string     `yaml:"package"`
	Declarations []declSpec `yaml:"declarations"`
}

type declSpec struct {
	Fun     string      `yaml:"fun"`
	Val     string      `yaml:"val"`
	Class   string      `yaml:"class"`
	Local   bool        `yaml:"local"`
	Type    string      `yaml:"type"`
	Params  []paramSpec `yaml:"params"`
	Body    *exprSpec   `yaml:"body"`
	Init    *exprSpec   `yaml:"init"`
	Members []declSpec  `yaml:"members"`

	line int
}

func (d *declSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain declSpec
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = n.Line
	return nil
}

type paramSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type exprSpec struct {
	Lit   string      `yaml:"lit"`
	Ref   string      `yaml:"ref"`
	Call  string      `yaml:"call"`
	Args  []exprSpec  `yaml:"args"`
	Block *[]exprSpec `yaml:"block"`
	If    *ifSpec     `yaml:"if"`

	line int
}

func (e *exprSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		e.Ref = n.Value
		e.line = n.Line
		return nil
	}
	type plain exprSpec
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = n.Line
	return nil
}

type ifSpec struct {
	Then *exprSpec `yaml:"then"`
	Else *exprSpec `yaml:"else"`
}

// ParseFile builds the declaration tree of one declaration file. The package
// defaults to defaultPackage when the file does not name one.
func ParseFile(path string, data []byte, defaultPackage string) (*ast.File, error) {
	var spec fileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if spec.Package == "" {
		spec.Package = defaultPackage
	}
	if spec.Package == "" {
		return nil, &DeclarationError{File: path, Message: "missing package"}
	}

	b := &fileBuilder{path: path, pkg: spec.Package}
	decls, err := b.members(spec.Declarations, nil)
	if err != nil {
		return nil, err
	}
	return &ast.File{Path: path, Package: spec.Package, Declarations: decls}, nil
}

type fileBuilder struct {
	path string
	pkg  string
}

func (b *fileBuilder) errorf(line int, format string, args ...interface{}) error {
	return &DeclarationError{File: b.path, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (b *fileBuilder) members(specs []declSpec, outer *ast.ClassID) ([]ast.Declaration, error) {
	seen := make(map[string]bool)
	out := make([]ast.Declaration, 0, len(specs))
	for i := range specs {
		d, name, err := b.declaration(&specs[i], outer)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, b.errorf(specs[i].line, "duplicate declaration %s", name)
		}
		seen[name] = true
		out = append(out, d)
	}
	return out, nil
}

func (b *fileBuilder) declaration(d *declSpec, outer *ast.ClassID) (ast.Declaration, string, error) {
	kinds := 0
	for _, name := range []string{d.Fun, d.Val, d.Class} {
		if name != "" {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, "", b.errorf(d.line, "declaration needs exactly one of fun, val, class")
	}

	switch {
	case d.Class != "":
		if d.Type != "" || d.Params != nil || d.Body != nil || d.Init != nil {
			return nil, "", b.errorf(d.line, "class %s: only members are allowed", d.Class)
		}
		cls, err := b.class(d, outer)
		return cls, d.Class, err
	case d.Fun != "":
		if d.Init != nil || d.Members != nil {
			return nil, "", b.errorf(d.line, "fun %s: init and members are not allowed", d.Fun)
		}
		fn, err := b.function(d, outer)
		return fn, d.Fun, err
	default:
		if d.Params != nil || d.Body != nil || d.Members != nil {
			return nil, "", b.errorf(d.line, "val %s: params, body and members are not allowed", d.Val)
		}
		prop, err := b.property(d, outer)
		return prop, d.Val, err
	}
}

func (b *fileBuilder) class(d *declSpec, outer *ast.ClassID) (*ast.Class, error) {
	var id ast.ClassID
	if outer == nil {
		id = ast.ClassID{Package: b.pkg, RelativeName: d.Class}
	} else {
		id = outer.Nested(d.Class)
	}
	if d.Local {
		id.Local = true
	}
	body, err := b.members(d.Members, &id)
	if err != nil {
		return nil, err
	}
	return &ast.Class{ID: id, Body: body}, nil
}

func (b *fileBuilder) function(d *declSpec, outer *ast.ClassID) (*ast.Function, error) {
	fn := &ast.Function{Sym: b.symbol(d.Fun, outer)}
	var err error
	if fn.Return, err = b.typ(d.line, d.Type); err != nil {
		return nil, err
	}
	for _, p := range d.Params {
		if p.Name == "" {
			return nil, b.errorf(d.line, "fun %s: parameter without name", d.Fun)
		}
		t, err := b.typ(d.line, p.Type)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, &ast.ValueParameter{Name: p.Name, Type: t})
	}
	if d.Body != nil {
		if fn.Body, err = b.expression(d.Body); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func (b *fileBuilder) property(d *declSpec, outer *ast.ClassID) (*ast.Property, error) {
	prop := &ast.Property{Sym: b.symbol(d.Val, outer)}
	var err error
	if prop.Type, err = b.typ(d.line, d.Type); err != nil {
		return nil, err
	}
	if d.Init != nil {
		if prop.Initializer, err = b.expression(d.Init); err != nil {
			return nil, err
		}
	}
	return prop, nil
}

func (b *fileBuilder) symbol(name string, outer *ast.ClassID) *ast.Symbol {
	return ast.NewSymbol(ast.CallableID{Package: b.pkg, Class: outer, Name: name})
}

// typ parses a written type. An empty type is implicit.
func (b *fileBuilder) typ(line int, s string) (typesystem.Type, error) {
	if s == "" {
		return nil, nil
	}
	t, err := typesystem.Parse(s)
	if err != nil {
		return nil, &DeclarationError{File: b.path, Line: line, Message: err.Error(), Err: err}
	}
	return t, nil
}

func (b *fileBuilder) expression(e *exprSpec) (ast.Expression, error) {
	kinds := 0
	if e.Lit != "" {
		kinds++
	}
	if e.Ref != "" {
		kinds++
	}
	if e.Call != "" {
		kinds++
	}
	if e.Block != nil {
		kinds++
	}
	if e.If != nil {
		kinds++
	}
	if kinds != 1 {
		return nil, b.errorf(e.line, "expression needs exactly one of lit, ref, call, block, if")
	}
	if e.Args != nil && e.Call == "" {
		return nil, b.errorf(e.line, "args are only allowed on call")
	}

	switch {
	case e.Lit != "":
		t, err := b.typ(e.line, e.Lit)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Type: t}, nil
	case e.Ref != "":
		return &ast.Reference{Name: e.Ref}, nil
	case e.Call != "":
		args, err := b.expressions(e.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Callee: e.Call, Arguments: args}, nil
	case e.Block != nil:
		exprs, err := b.expressions(*e.Block)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpression{Expressions: exprs}, nil
	default:
		if e.If.Then == nil || e.If.Else == nil {
			return nil, b.errorf(e.line, "if needs then and else")
		}
		then, err := b.expression(e.If.Then)
		if err != nil {
			return nil, err
		}
		els, err := b.expression(e.If.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfExpression{Then: then, Else: els}, nil
	}
}

func (b *fileBuilder) expressions(specs []exprSpec) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(specs))
	for i := range specs {
		e, err := b.expression(&specs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
