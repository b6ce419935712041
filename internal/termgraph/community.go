// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"sort"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/graph/community"

	"github.com/kortschak/termgraph/internal/similarity"
)

// Palette is an ordered set of colors assigned to communities.
type Palette []string

// Dark24 is the Plotly Dark24 qualitative palette.
var Dark24 = Palette{
	"#2E91E5", "#E15F99", "#1CA71C", "#FB0D0D", "#DA16FF", "#222A2A",
	"#B68100", "#750D86", "#EB663B", "#511CFB", "#00A08B", "#FB00D1",
	"#FC0080", "#B2828D", "#6C7C32", "#778AAE", "#862A16", "#A777F1",
	"#620042", "#1616A7", "#DA60CA", "#6C4516", "#0D2A63", "#AF0038",
}

// Color returns the color for the community at position i in community
// order. Colors are reused cyclically when there are more communities
// than colors. Color panics if p is empty.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		panic("termgraph: empty palette")
	}
	return p[i%len(p)]
}

// Community is a cluster of similarity graph nodes.
type Community struct {
	// ID is the position of the community in
	// community order.
	ID int

	// Color is the display color of the community.
	Color string

	// Members holds the node indices of the community
	// members in ascending order.
	Members []int

	// Representative is the node index of the member
	// chosen to carry the community label, or -1 if
	// the community has a single member.
	Representative int

	// Label is the community summary label. It is
	// empty for single member communities.
	Label string
}

// Partition is a community partition of a similarity graph.
type Partition struct {
	// Communities holds the communities ordered
	// by their smallest member.
	Communities []Community

	// Membership holds the community ID of each
	// node indexed by node.
	Membership []int

	// Modularity is the modularity score, Q, of
	// the partition. It is zero for a graph
	// without edges.
	Modularity float64
}

// Detect partitions g into communities by Louvain modularity
// optimisation with unit resolution, and assigns colors from palette in
// community order. The partition is deterministic for a given graph and
// seed. A graph without edges is partitioned into single node
// communities.
func Detect(g *similarity.Graph, seed uint64, palette Palette) Partition {
	n := g.Len()
	if n == 0 {
		return Partition{}
	}

	var groups [][]int
	var q float64
	if len(g.Edges()) == 0 {
		groups = make([][]int, n)
		for i := range groups {
			groups[i] = []int{i}
		}
	} else {
		u := ordered{g.Undirected()}
		r := community.Modularize(u, 1, rand.NewSource(seed))
		comm := r.Communities()
		q = community.Q(u, comm, 1)
		groups = make([][]int, 0, len(comm))
		for _, c := range comm {
			if len(c) == 0 {
				continue
			}
			members := make([]int, len(c))
			for i, nd := range c {
				members[i] = int(nd.ID())
			}
			sort.Ints(members)
			groups = append(groups, members)
		}
	}
	return partitionOf(groups, n, q, palette)
}

// partitionOf returns the canonical partition of n nodes into groups.
// Each group must be sorted.
func partitionOf(groups [][]int, n int, q float64, palette Palette) Partition {
	sort.Sort(bySmallest(groups))
	p := Partition{
		Communities: make([]Community, len(groups)),
		Membership:  make([]int, n),
		Modularity:  q,
	}
	for id, members := range groups {
		p.Communities[id] = Community{
			ID:             id,
			Color:          palette.Color(id),
			Members:        members,
			Representative: -1,
		}
		for _, m := range members {
			p.Membership[m] = id
		}
	}
	return p
}

// bySmallest sorts sorted groups by their first element.
type bySmallest [][]int

func (g bySmallest) Len() int           { return len(g) }
func (g bySmallest) Less(i, j int) bool { return g[i][0] < g[j][0] }
func (g bySmallest) Swap(i, j int)      { g[i], g[j] = g[j], g[i] }
