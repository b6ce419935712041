// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/mat"

	"github.com/kortschak/termgraph/internal/similarity"
)

// randomGraph returns a similarity graph over n terms with similarities
// drawn from a source seeded with seed.
func randomGraph(t testing.TB, n int, seed uint64) *similarity.Graph {
	rnd := rand.New(rand.NewSource(seed))
	sym := mat.NewSymDense(n, nil)
	ids := make([]string, n)
	group := make(similarity.Group, n)
	for i := 0; i < n; i++ {
		ids[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
		group[i] = similarity.Member{ID: ids[i], Genes: rnd.Intn(100), Index: i}
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, rnd.Float64())
		}
	}
	m, err := similarity.NewMatrix(sym, ids)
	if err != nil {
		t.Fatalf("unexpected error constructing matrix: %v", err)
	}
	g, err := similarity.Build(group, m, 0.8)
	if err != nil {
		t.Fatalf("unexpected error building graph: %v", err)
	}
	return g
}

func TestLayout(t *testing.T) {
	for _, alg := range []string{FruchtermanReingold, Eades} {
		g := randomGraph(t, 30, 1)
		p := LayoutParams{Algorithm: alg, Iterations: 50, Seed: 7}
		first, err := Layout(g, p)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", alg, err)
		}
		second, err := Layout(g, p)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", alg, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("layout %s not deterministic", alg)
		}
		if len(first) != g.Len() {
			t.Fatalf("unexpected number of points for %s: got:%d want:%d", alg, len(first), g.Len())
		}
		var max float64
		for _, pt := range first {
			if math.IsNaN(pt.X) || math.IsNaN(pt.Y) {
				t.Fatalf("unexpected NaN position for %s", alg)
			}
			max = math.Max(max, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
		}
		if math.Abs(max-1) > 1e-12 {
			t.Errorf("unexpected layout extent for %s: got:%v want:1", alg, max)
		}
	}

	_, err := Layout(randomGraph(t, 3, 1), LayoutParams{Algorithm: "circle"})
	if err == nil {
		t.Error("expected error for unknown layout algorithm")
	}
}

func TestLayoutAttraction(t *testing.T) {
	// The strongly similar pair should end closer together than the
	// weakly similar pair in a path a-b-c.
	sym := mat.NewSymDense(3, []float64{
		1, 0.99, 0,
		0.99, 1, 0.51,
		0, 0.51, 1,
	})
	m, err := similarity.NewMatrix(sym, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, err := similarity.Build(similarity.Group{{ID: "a", Index: 0}, {ID: "b", Index: 1}, {ID: "c", Index: 2}}, m, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts, err := Layout(g, LayoutParams{Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dist := func(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
	if ab, bc := dist(pts[0], pts[1]), dist(pts[1], pts[2]); ab >= bc {
		t.Errorf("expected a-b closer than b-c: ab=%v bc=%v", ab, bc)
	}
}

func TestDetectDeterminism(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		g := randomGraph(t, 40, seed)
		first := Detect(g, 1, Dark24)
		second := Detect(g, 1, Dark24)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("partition not deterministic for graph %d", seed)
		}

		comm := make([][]graph.Node, len(first.Communities))
		for i, c := range first.Communities {
			for _, m := range c.Members {
				comm[i] = append(comm[i], g.Undirected().Node(int64(m)))
			}
		}
		if q := community.Q(g.Undirected(), comm, 1); math.Abs(q-first.Modularity) > 1e-9 {
			t.Errorf("unexpected modularity for graph %d: got:%v want:%v", seed, first.Modularity, q)
		}
	}
}

func TestPalette(t *testing.T) {
	if len(Dark24) != 24 {
		t.Fatalf("unexpected palette length: %d", len(Dark24))
	}
	for i := 0; i < 3*len(Dark24); i++ {
		if got, want := Dark24.Color(i), Dark24[i%24]; got != want {
			t.Errorf("unexpected color for community %d: got:%s want:%s", i, got, want)
		}
	}
	p := partitionOf([][]int{{3}, {0, 2}, {1}}, 4, 0, Palette{"red", "blue"})
	wantMembership := []int{0, 1, 0, 2}
	if !reflect.DeepEqual(p.Membership, wantMembership) {
		t.Errorf("unexpected membership: got:%v want:%v", p.Membership, wantMembership)
	}
	var colors []string
	for _, c := range p.Communities {
		colors = append(colors, c.Color)
	}
	if want := []string{"red", "blue", "red"}; !reflect.DeepEqual(colors, want) {
		t.Errorf("unexpected colors: got:%v want:%v", colors, want)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty palette")
		}
	}()
	Palette(nil).Color(0)
}

func TestPayloadProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	c := &Context{Ontology: testOntology(t), Params: DefaultParams()}
	properties.Property("payloads are consistent and labels match community size", prop.ForAll(
		func(seed uint64, threshold float64) bool {
			rnd := rand.New(rand.NewSource(seed))
			n := len(testIDs)
			sym := mat.NewSymDense(n, nil)
			for i := 0; i < n; i++ {
				sym.SetSym(i, i, 1)
				for j := i + 1; j < n; j++ {
					sym.SetSym(i, j, rnd.Float64())
				}
			}
			m, err := similarity.NewMatrix(sym, testIDs)
			if err != nil {
				return false
			}
			ctx := *c
			ctx.Matrix = m
			ctx.Params.Threshold = threshold
			ctx.Params.Seed = seed
			res, err := ctx.Build(testGroup(testIDs...))
			if err != nil {
				return false
			}
			if res.Payload.Check() != nil {
				return false
			}
			for _, comm := range res.Communities {
				multi := len(comm.Members) > 1
				if (comm.Label != "") != multi || (comm.Representative >= 0) != multi {
					return false
				}
				for _, i := range comm.Members {
					n := res.Payload.Nodes[i]
					if n.Color != comm.Color || n.Representative != (i == comm.Representative) {
						return false
					}
				}
			}
			return true
		},
		gen.UInt64(),
		gen.Float64Range(0.3, 1),
	))

	properties.TestingRun(t)
}
