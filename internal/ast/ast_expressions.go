package ast

import (
	"strings"

	"github.com/funvibe/implres/internal/typesystem"
)

// Expression is a declaration body or initializer.
type Expression interface {
	Node
	expressionNode()
	String() string
}

// Literal is a constant of a known type.
type Literal struct {
	Type typesystem.Type
}

func (l *Literal) TokenLiteral() string { return l.Type.String() }
func (l *Literal) expressionNode()      {}
func (l *Literal) String() string       { return "<" + l.Type.String() + ">" }

// Reference names a property, parameter or function. Dotted names select class members (Outer.x).
type Reference struct {
	Name string
}

func (r *Reference) TokenLiteral() string { return r.Name }
func (r *Reference) expressionNode()      {}
func (r *Reference) String() string       { return r.Name }

// CallExpression calls a named function.
type CallExpression struct {
	Callee    string
	Arguments []Expression
}

func (c *CallExpression) TokenLiteral() string { return c.Callee }
func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee + "(" + strings.Join(args, ", ") + ")"
}

// BlockExpression evaluates to its last expression.
type BlockExpression struct {
	Expressions []Expression
}

func (b *BlockExpression) TokenLiteral() string { return "{" }
func (b *BlockExpression) expressionNode()      {}
func (b *BlockExpression) String() string {
	parts := make([]string, len(b.Expressions))
	for i, e := range b.Expressions {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// IfExpression has two branches; its type is their common type.
type IfExpression struct {
	Then Expression
	Else Expression
}

func (i *IfExpression) TokenLiteral() string { return "if" }
func (i *IfExpression) expressionNode()      {}
func (i *IfExpression) String() string {
	return "if (...) " + i.Then.String() + " else " + i.Else.String()
}
