// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/formats/rdf"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/kortschak/gogo"
	"github.com/kortschak/termgraph/internal/owl"
)

// LoadOWL returns the ontology graph for the Gene Ontology stored in an
// OBO in OWL file. Files with a .gz suffix are decompressed. Gene counts
// are zero.
func LoadOWL(path string) (*Graph, error) {
	var g *Graph
	err := withReader(path, func(r io.Reader) error {
		var err error
		g, err = ReadOWL(r)
		return err
	})
	return g, err
}

// ReadOWL returns the ontology graph for the Gene Ontology read from an
// OBO in OWL stream.
func ReadOWL(r io.Reader) (*Graph, error) {
	dec, err := owl.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	g := gogo.NewGraph()
	for {
		c, err := dec.Decode()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		statements, err := c.Statements(dec)
		if err != nil {
			return nil, err
		}
		for _, s := range statements {
			g.AddStatement(s)
		}
	}
	return FromGOGraph(g)
}

// FromGOGraph returns an ontology graph constructed from the GO subclass
// hierarchy held in g, which must use local IRI namespaces. Term depths
// are the shortest subclass distance from a root. Deprecated terms are
// omitted.
func FromGOGraph(g *gogo.Graph) (*Graph, error) {
	var goTerms []rdf.Term
	nodes := g.Nodes()
	for nodes.Next() {
		t := nodes.Node().(rdf.Term)
		if !strings.HasPrefix(t.Value, goTermPrefix) || isDeprecated(g, t) {
			continue
		}
		goTerms = append(goTerms, t)
	}
	sort.Sort(byValue(goTerms))

	roots := g.Roots(false)
	depths := depthsFrom(g, roots)
	for _, t := range goTerms {
		if _, ok := depths[t.Value]; !ok {
			// Some terms are not below the standard roots,
			// so do an exhaustive root search.
			roots = g.Roots(true)
			depths = depthsFrom(g, roots)
			break
		}
	}

	var rootIDs []string
	for _, r := range roots {
		if isDeprecated(g, r) {
			continue
		}
		rootIDs = append(rootIDs, goID(r.Value))
	}

	parents := make(map[string][]string)
	terms := make([]Term, 0, len(goTerms))
	for _, t := range goTerms {
		depth, ok := depths[t.Value]
		if !ok {
			return nil, fmt.Errorf("ontology: no root found for %s", t.Value)
		}
		id := goID(t.Value)
		terms = append(terms, Term{
			ID:    id,
			Name:  nameOf(g, t),
			Depth: depth,
		})

		up := g.Query(t).Out(func(s *rdf.Statement) bool {
			return s.Predicate.Value == owl.SubClassOf &&
				strings.HasPrefix(s.Object.Value, goTermPrefix)
		}).Unique().Result()
		var p []string
		for _, u := range up {
			if isDeprecated(g, u) {
				continue
			}
			p = append(p, goID(u.Value))
		}
		sort.Strings(p)
		if len(p) != 0 {
			parents[id] = p
		}
	}

	return New(parents, rootIDs, terms)
}

const goTermPrefix = "<obo:GO_"

// depthsFrom returns the shortest depth of every GO term below the given
// roots keyed by term value.
func depthsFrom(g *gogo.Graph, roots []rdf.Term) map[string]int {
	depths := make(map[string]int)
	for _, r := range roots {
		bf := traverse.BreadthFirst{Traverse: goIsSubClassOf}
		bf.Walk(reverse{g}, r, func(n graph.Node, d int) bool {
			t := n.(rdf.Term)
			if old, ok := depths[t.Value]; !ok || d < old {
				depths[t.Value] = d
			}
			return false
		})
	}
	return depths
}

// goIsSubClassOf is a traverse edge filter. It accepts statements where
//
//  <obo:GO_* <- <rdfs:subClassOf> -- any
//
// for in queries from a term.
func goIsSubClassOf(e graph.Edge) bool {
	return gogo.ConnectedByAny(e, func(s *rdf.Statement) bool {
		return s.Predicate.Value == owl.SubClassOf &&
			strings.HasPrefix(s.Subject.Value, goTermPrefix)
	})
}

// reverse implements the traverse.Graph reversing the direction of edges.
type reverse struct {
	*gogo.Graph
}

func (g reverse) From(id int64) graph.Nodes      { return g.Graph.To(id) }
func (g reverse) Edge(uid, vid int64) graph.Edge { return g.Graph.Edge(vid, uid) }

func isDeprecated(g *gogo.Graph, t rdf.Term) bool {
	dep := g.Query(t).Out(func(s *rdf.Statement) bool {
		return s.Predicate.Value == owl.Deprecated && s.Object.Value == `"true"^^<xsd:boolean>`
	})
	return len(dep.Result()) != 0
}

// nameOf returns the rdfs:label of t, or its GO ID if it has no label.
func nameOf(g *gogo.Graph, t rdf.Term) string {
	labels := g.Query(t).Out(func(s *rdf.Statement) bool {
		return s.Predicate.Value == owl.Label
	}).Result()
	for _, l := range labels {
		text, _, kind, err := l.Parts()
		if err == nil && kind == rdf.Literal {
			return text
		}
	}
	return goID(t.Value)
}

// goID returns the GO identifier for a local GO term IRI,
// GO:0008150 for <obo:GO_0008150>.
func goID(iri string) string {
	return "GO:" + strings.TrimSuffix(strings.TrimPrefix(iri, goTermPrefix), ">")
}

type byValue []rdf.Term

func (t byValue) Len() int           { return len(t) }
func (t byValue) Less(i, j int) bool { return t[i].Value < t[j].Value }
func (t byValue) Swap(i, j int)      { t[i], t[j] = t[j], t[i] }
