// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ontology provides an in-memory Gene Ontology DAG with per-term
// metadata and ancestry queries.
package ontology // import "github.com/kortschak/termgraph/internal/ontology"

import (
	"fmt"
	"sort"
)

// Term is an ontology term.
type Term struct {
	// ID is the term identifier, e.g. GO:0008150.
	ID string

	// Name is the display name of the term.
	Name string

	// Depth is the distance of the term from its root.
	// Roots have depth zero.
	Depth int

	// Genes is the number of genes annotated to the term.
	Genes int
}

// Graph is an ontology DAG. Edges are directed from child to parent.
// A Graph is not mutated after construction and is safe for concurrent
// use.
type Graph struct {
	parents map[string][]string
	roots   []string
	terms   map[string]Term
}

// New returns a new Graph from the child to parent adjacency, the root
// term IDs and the term metadata. Every term referenced by parents or
// roots must have metadata in terms. The adjacency is not checked for
// cycles here; a cycle is reported by the ancestry queries that reach it.
func New(parents map[string][]string, roots []string, terms []Term) (*Graph, error) {
	g := &Graph{
		parents: make(map[string][]string, len(parents)),
		terms:   make(map[string]Term, len(terms)),
	}
	for _, t := range terms {
		if t.ID == "" {
			return nil, fmt.Errorf("ontology: term with empty ID: %+v", t)
		}
		if _, exists := g.terms[t.ID]; exists {
			return nil, fmt.Errorf("ontology: duplicate term %q", t.ID)
		}
		if t.Depth < 0 || t.Genes < 0 {
			return nil, fmt.Errorf("ontology: negative depth or gene count for %q", t.ID)
		}
		g.terms[t.ID] = t
	}

	for child, p := range parents {
		if _, ok := g.terms[child]; !ok {
			return nil, fmt.Errorf("ontology: term %q has no metadata", child)
		}
		seen := make(map[string]bool, len(p))
		var uniq []string
		for _, id := range p {
			if _, ok := g.terms[id]; !ok {
				return nil, fmt.Errorf("ontology: parent %q of %q has no metadata", id, child)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			uniq = append(uniq, id)
		}
		if len(uniq) != 0 {
			g.parents[child] = uniq
		}
	}

	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		if _, ok := g.terms[r]; !ok {
			return nil, fmt.Errorf("ontology: root %q has no metadata", r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		g.roots = append(g.roots, r)
	}
	sort.Strings(g.roots)

	return g, nil
}

// Len returns the number of terms in the graph.
func (g *Graph) Len() int { return len(g.terms) }

// Term returns the term with the given ID and whether it exists.
func (g *Graph) Term(id string) (Term, bool) {
	t, ok := g.terms[id]
	return t, ok
}

// Roots returns the sorted root term IDs.
func (g *Graph) Roots() []string {
	return append([]string(nil), g.roots...)
}

// Parents returns the direct parents of the term with the given ID in
// adjacency order.
func (g *Graph) Parents(id string) []string {
	return append([]string(nil), g.parents[id]...)
}

// Terms returns all the terms in the graph sorted by ID.
func (g *Graph) Terms() []Term {
	terms := make([]Term, 0, len(g.terms))
	for _, t := range g.terms {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].ID < terms[j].ID })
	return terms
}

// WithGenes returns a copy of g with gene counts taken from genes. Terms
// not present in genes retain their existing count.
func (g *Graph) WithGenes(genes map[string]int) (*Graph, error) {
	c := &Graph{
		parents: g.parents,
		roots:   g.roots,
		terms:   make(map[string]Term, len(g.terms)),
	}
	for id, t := range g.terms {
		if n, ok := genes[id]; ok {
			if n < 0 {
				return nil, fmt.Errorf("ontology: negative gene count for %q", id)
			}
			t.Genes = n
		}
		c.terms[id] = t
	}
	return c, nil
}

// Set is a set of term IDs.
type Set map[string]bool

// Sorted returns the members of the set in lexical order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
