package analyzer

import (
	"errors"
	"io"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/funvibe/implres/internal/ast"
)

// DependencyGraph records which declaration asked for which other
// declaration's type. Edges are discovered lazily while bodies are resolved.
type DependencyGraph struct {
	g graph.Graph[string, string]
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{g: graph.New(graph.StringHash, graph.Directed())}
}

// AddVertex registers a declaration by symbol name.
func (d *DependencyGraph) AddVertex(name string) {
	err := d.g.AddVertex(name)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		panic(err)
	}
}

// AddEdge records from -> to by symbol name, registering both ends.
func (d *DependencyGraph) AddEdge(from, to string) {
	d.AddVertex(from)
	d.AddVertex(to)
	err := d.g.AddEdge(from, to)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		panic(err)
	}
}

// AddDependency records from -> to. A nil from (a request outside of any
// resolution) only registers the target.
func (d *DependencyGraph) AddDependency(from, to ast.Callable) {
	if from == nil {
		d.AddVertex(to.Symbol().String())
		return
	}
	d.AddEdge(from.Symbol().String(), to.Symbol().String())
}

// Edge is a recorded dependency.
type Edge struct {
	From, To string
}

// Edges returns all dependencies sorted by source then target.
func (d *DependencyGraph) Edges() []Edge {
	adj, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	var out []Edge
	for from, targets := range adj {
		for to := range targets {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Cycles returns the groups of mutually dependent declarations: strongly
// connected components with more than one member, or a single member that
// depends on itself. Members and groups are sorted.
func (d *DependencyGraph) Cycles() [][]string {
	components, err := graph.StronglyConnectedComponents(d.g)
	if err != nil {
		return nil
	}
	adj, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	var out [][]string
	for _, comp := range components {
		if len(comp) == 1 {
			if _, self := adj[comp[0]][comp[0]]; !self {
				continue
			}
		}
		members := append([]string(nil), comp...)
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// WriteDOT renders the graph in Graphviz DOT format.
func (d *DependencyGraph) WriteDOT(w io.Writer) error {
	return draw.DOT(d.g, w)
}
