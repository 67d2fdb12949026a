package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/pipeline"
	"github.com/funvibe/implres/internal/prettyprinter"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// useColor decides the color mode for out.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type printer struct {
	out   io.Writer
	color bool
}

func (p *printer) paint(style, s string) string {
	if !p.color {
		return s
	}
	return style + s + ansiReset
}

// printResults writes "symbol: type" per callable, then the diagnostics.
// It returns the number of problems found.
func (p *printer) printResults(ctx *pipeline.PipelineContext) int {
	for _, r := range ctx.Resolutions {
		typ := r.Type
		if r.Error {
			typ = p.paint(ansiRed, typ)
		}
		fmt.Fprintf(p.out, "%s: %s\n", p.paint(ansiBold, r.Symbol), typ)
	}
	if ctx.Config.Print {
		for _, f := range ctx.Files {
			cp := prettyprinter.NewCodePrinter()
			cp.PrintFile(f)
			fmt.Fprintf(p.out, "\n%s\n", cp.String())
		}
	}
	for _, d := range ctx.Diagnostics {
		fmt.Fprintln(p.out, p.paint(ansiRed, d.Error()))
	}
	for _, c := range ctx.Cycles {
		fmt.Fprintf(p.out, "cycle: %v\n", c)
	}
	for _, err := range ctx.Errors {
		fmt.Fprintln(p.out, p.paint(ansiRed, "fatal: "+err.Error()))
	}
	return len(ctx.Diagnostics) + len(ctx.Errors)
}
