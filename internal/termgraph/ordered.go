// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// ordered is a weighted graph.Undirected that returns nodes in ID order.
// The gonum simple graphs return nodes in map order, which would make
// randomised algorithms seeded with a fixed source, and floating point
// sums over neighbours, depend on the run.
type ordered struct {
	graph.WeightedUndirected
}

// EdgeBetween returns the edge between the nodes x and y, or nil if
// there is no such edge. It makes ordered a graph.Undirected.
func (g ordered) EdgeBetween(xid, yid int64) graph.Edge {
	e := g.WeightedEdgeBetween(xid, yid)
	if e == nil {
		return nil
	}
	return e
}

func (g ordered) Nodes() graph.Nodes {
	return iterator.NewOrderedNodes(sortedNodes(g.WeightedUndirected.Nodes()))
}

func (g ordered) From(id int64) graph.Nodes {
	return iterator.NewOrderedNodes(sortedNodes(g.WeightedUndirected.From(id)))
}

func sortedNodes(it graph.Nodes) []graph.Node {
	nodes := graph.NodesOf(it)
	sort.Sort(byID(nodes))
	return nodes
}

type byID []graph.Node

func (n byID) Len() int           { return len(n) }
func (n byID) Less(i, j int) bool { return n[i].ID() < n[j].ID() }
func (n byID) Swap(i, j int)      { n[i], n[j] = n[j], n[i] }
