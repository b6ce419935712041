// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kortschak/termgraph/internal/similarity"
)

// Layout algorithm names.
const (
	FruchtermanReingold = "fr"
	Eades               = "eades"
)

// Point is a node position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutParams holds the parameters for a graph layout.
type LayoutParams struct {
	// Algorithm is the layout algorithm, either
	// FruchtermanReingold or Eades. The empty
	// string is FruchtermanReingold.
	Algorithm string

	// Iterations is the number of layout
	// update steps. Zero is 200 steps.
	Iterations int

	// Seed is the seed for initial node
	// placement.
	Seed uint64
}

const defaultIterations = 200

// Layout returns positions for the nodes of g indexed by node. The
// positions are centred on the origin and scaled so that the largest
// coordinate magnitude is one. A graph with a single node has it placed
// at the origin. Layout is deterministic for a given graph and params.
func Layout(g *similarity.Graph, p LayoutParams) ([]Point, error) {
	n := g.Len()
	switch n {
	case 0:
		return nil, nil
	case 1:
		return []Point{{}}, nil
	}
	iter := p.Iterations
	if iter <= 0 {
		iter = defaultIterations
	}

	var update func(graph.Graph, layout.LayoutR2) bool
	switch p.Algorithm {
	case "", FruchtermanReingold:
		update = (&weightedFR{g: g, updates: iter, src: rand.NewSource(p.Seed)}).Update
	case Eades:
		update = (&layout.EadesR2{
			Updates:   iter,
			Repulsion: 1,
			Rate:      0.05,
			Theta:     0.2,
			Src:       rand.NewSource(p.Seed),
		}).Update
	default:
		return nil, fmt.Errorf("termgraph: unknown layout algorithm %q", p.Algorithm)
	}

	o := layout.NewOptimizerR2(ordered{g.Undirected()}, update)
	for o.Update() {
	}

	pts := make([]Point, n)
	for i := range pts {
		c := o.Coord2(int64(i))
		pts[i] = Point{X: c.X, Y: c.Y}
	}
	normalize(pts)
	return pts, nil
}

// normalize centres pts on the origin and scales them to unit extent.
func normalize(pts []Point) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))
	var max float64
	for i := range pts {
		pts[i].X -= cx
		pts[i].Y -= cy
		max = math.Max(max, math.Max(math.Abs(pts[i].X), math.Abs(pts[i].Y)))
	}
	if max == 0 {
		return
	}
	for i := range pts {
		pts[i].X /= max
		pts[i].Y /= max
	}
}

// weightedFR is a Fruchterman-Reingold force directed layout with
// attraction proportional to edge weight. Nodes are identified by their
// position in the similarity graph.
type weightedFR struct {
	g       *similarity.Graph
	updates int
	src     rand.Source

	k    float64
	temp float64
	cool float64
	disp []r2.Vec
}

// Update performs a single layout step. It returns false when the
// configured number of updates have been made.
func (u *weightedFR) Update(_ graph.Graph, l layout.LayoutR2) bool {
	if u.updates <= 0 {
		return false
	}
	u.updates--

	n := u.g.Len()
	if !l.IsInitialized() {
		rnd := rand.New(u.src)
		for i := 0; i < n; i++ {
			l.SetCoord2(int64(i), r2.Vec{X: rnd.Float64(), Y: rnd.Float64()})
		}
		u.k = math.Sqrt(1 / float64(n))
		u.temp = 0.1
		u.cool = u.temp / float64(u.updates+1)
		u.disp = make([]r2.Vec, n)
	}

	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = l.Coord2(int64(i))
		u.disp[i] = r2.Vec{}
	}

	// Repulsion between all pairs.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx, dy, d := delta(pos[i], pos[j])
			f := u.k * u.k / d
			u.disp[i].X += dx / d * f
			u.disp[i].Y += dy / d * f
			u.disp[j].X -= dx / d * f
			u.disp[j].Y -= dy / d * f
		}
	}

	// Weighted attraction along edges.
	for _, e := range u.g.Edges() {
		dx, dy, d := delta(pos[e.From], pos[e.To])
		f := e.Weight * d * d / u.k
		u.disp[e.From].X -= dx / d * f
		u.disp[e.From].Y -= dy / d * f
		u.disp[e.To].X += dx / d * f
		u.disp[e.To].Y += dy / d * f
	}

	for i, v := range u.disp {
		m := math.Hypot(v.X, v.Y)
		if m == 0 {
			continue
		}
		s := math.Min(m, u.temp) / m
		l.SetCoord2(int64(i), r2.Vec{X: pos[i].X + v.X*s, Y: pos[i].Y + v.Y*s})
	}
	u.temp -= u.cool

	return u.updates > 0
}

// minDist bounds the distance between coincident nodes.
const minDist = 1e-9

func delta(a, b r2.Vec) (dx, dy, d float64) {
	dx = a.X - b.X
	dy = a.Y - b.Y
	d = math.Max(math.Hypot(dx, dy), minDist)
	return dx, dy, d
}
