// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package similarity

import (
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"
)

// MarshalDOT returns the DOT encoding of the graph. Nodes are identified
// by term ID and labelled with the term name; edges carry their weight.
func (g *Graph) MarshalDOT(name string) ([]byte, error) {
	return dot.Marshal(dotGraph{g}, name, "", "\t")
}

// dotGraph implements graph.Undirected and dot.Attributers to allow the
// term data to be given to the DOT encoder.
type dotGraph struct {
	*Graph
}

func (g dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return attr{{Key: "overlap", Value: "false"}}, attr{{Key: "shape", Value: "circle"}}, attr{}
}

type attr []encoding.Attribute

func (a attr) Attributes() []encoding.Attribute {
	return a
}

func (g dotGraph) Node(id int64) graph.Node {
	if id < 0 || int64(g.Len()) <= id {
		return nil
	}
	return termNode{id: id, Member: g.group[id]}
}

func (g dotGraph) Nodes() graph.Nodes {
	if g.Len() == 0 {
		return graph.Empty
	}
	nodes := make([]graph.Node, g.Len())
	for i := range nodes {
		nodes[i] = g.Node(int64(i))
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g dotGraph) From(id int64) graph.Nodes {
	it := g.g.From(id)
	if it.Len() == 0 {
		return graph.Empty
	}
	var nodes []graph.Node
	for it.Next() {
		nodes = append(nodes, g.Node(it.Node().ID()))
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g dotGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.g.HasEdgeBetween(xid, yid)
}

func (g dotGraph) Edge(uid, vid int64) graph.Edge {
	return g.EdgeBetween(uid, vid)
}

func (g dotGraph) EdgeBetween(xid, yid int64) graph.Edge {
	w, ok := g.g.Weight(xid, yid)
	if !ok || xid == yid {
		return nil
	}
	return weightEdge{F: g.Node(xid), T: g.Node(yid), W: w}
}

// termNode implements graph.Node, dot.Node and encoding.Attributer
// to allow the term ID and name to be given to the DOT encoder.
type termNode struct {
	id int64
	Member
}

func (n termNode) ID() int64     { return n.id }
func (n termNode) DOTID() string { return n.Member.ID }
func (n termNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: strconv.Quote(n.Name)},
		{Key: "genes", Value: strconv.Itoa(n.Genes)},
	}
}

// weightEdge implements graph.WeightedEdge and encoding.Attributer.
type weightEdge struct {
	F, T graph.Node
	W    float64
}

func (e weightEdge) From() graph.Node         { return e.F }
func (e weightEdge) To() graph.Node           { return e.T }
func (e weightEdge) ReversedEdge() graph.Edge { e.F, e.T = e.T, e.F; return e }
func (e weightEdge) Weight() float64          { return e.W }
func (e weightEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: strconv.FormatFloat(e.W, 'g', -1, 64)}}
}
