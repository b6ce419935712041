// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package similarity

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// DefaultThreshold is the similarity below which term pairs are not
// connected.
const DefaultThreshold = 0.5

// Member is a ranked ontology term selected for a graph.
type Member struct {
	// ID is the ontology term ID.
	ID string

	// Name is the display name of the term.
	Name string

	// Rank is the significance rank of the
	// term, lower is more significant.
	Rank int

	// Genes is the number of genes annotated
	// to the term.
	Genes int

	// Index is the index of the term in the
	// similarity matrix.
	Index int

	// Stat is the test statistic of the term.
	Stat float64
}

// Group is an ordered selection of terms for one graph.
type Group []Member

// IDs returns the term IDs of the group in order.
func (g Group) IDs() []string {
	ids := make([]string, len(g))
	for i, m := range g {
		ids[i] = m.ID
	}
	return ids
}

// Edge is a weighted undirected edge between two group members
// identified by their position in the group. From is less than To.
type Edge struct {
	From, To int
	Weight   float64
}

// Graph is a weighted undirected similarity graph over the members of a
// Group. Node i of the graph corresponds to member i of the group.
type Graph struct {
	group Group
	g     *simple.WeightedUndirectedGraph
	edges []Edge
}

// Build returns the similarity graph of the members of group using the
// similarities in m. Member pairs with a similarity at or above
// threshold are joined by an edge weighted by their similarity. Members
// without any such partner remain as isolated nodes.
//
// Build returns an error if a member's index is outside m, if a member's
// ID does not match the term ordering of m or if a term appears more
// than once in group.
func Build(group Group, m *Matrix, threshold float64) (*Graph, error) {
	g := &Graph{
		group: append(Group(nil), group...),
		g:     simple.NewWeightedUndirectedGraph(0, 0),
	}
	if len(group) == 0 {
		return g, nil
	}

	seen := make(map[string]bool, len(group))
	idx := make([]int, len(group))
	for i, mem := range group {
		if seen[mem.ID] {
			return nil, fmt.Errorf("similarity: duplicate term %q in group", mem.ID)
		}
		seen[mem.ID] = true
		if mem.Index < 0 || m.Len() <= mem.Index {
			return nil, fmt.Errorf("similarity: term %q index %d out of range for %d terms", mem.ID, mem.Index, m.Len())
		}
		if m.ids != nil {
			j, ok := m.Index(mem.ID)
			switch {
			case !ok:
				return nil, fmt.Errorf("similarity: term %q not in matrix ordering", mem.ID)
			case j != mem.Index:
				return nil, fmt.Errorf("similarity: term %q at index %d does not match matrix index %d", mem.ID, mem.Index, j)
			}
		}
		idx[i] = mem.Index
	}

	sub, err := m.Sub(idx)
	if err != nil {
		return nil, err
	}
	if n := sub.SymmetricDim(); n != len(group) {
		return nil, fmt.Errorf("similarity: submatrix dimension %d does not match group size %d", n, len(group))
	}

	for i := range group {
		g.g.AddNode(simple.Node(i))
	}
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			w := sub.At(i, j)
			if w < threshold || w == 0 {
				continue
			}
			g.g.SetWeightedEdge(g.g.NewWeightedEdge(simple.Node(i), simple.Node(j), w))
			g.edges = append(g.edges, Edge{From: i, To: j, Weight: w})
		}
	}
	return g, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.group) }

// Member returns the group member corresponding to node i.
func (g *Graph) Member(i int) Member { return g.group[i] }

// Group returns the group the graph was built from.
func (g *Graph) Group() Group { return append(Group(nil), g.group...) }

// Edges returns the edges of the graph ordered by From and then To.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// Weight returns the weight of the edge between nodes i and j, or zero
// if there is no such edge.
func (g *Graph) Weight(i, j int) float64 {
	if i == j {
		return 0
	}
	w, ok := g.g.Weight(int64(i), int64(j))
	if !ok {
		return 0
	}
	return w
}

// Undirected returns the graph as a gonum weighted undirected graph with
// node IDs equal to group positions.
func (g *Graph) Undirected() graph.WeightedUndirected { return g.g }

// Degree returns the number of edges incident to node i.
func (g *Graph) Degree(i int) int {
	return g.g.From(int64(i)).Len()
}

func (e Edge) String() string {
	return fmt.Sprintf("%d--%d:%s", e.From, e.To, strconv.FormatFloat(e.Weight, 'g', -1, 64))
}
