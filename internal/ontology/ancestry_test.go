// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// testGraph returns the following graph with edges directed upwards
// to the roots R and S. U and V are not connected to any root.
//
//        R           S
//      / | \         |
//     A  |  P   Q----+
//    / \ |   \ /
//   D   B     X Y    U  V
//       |       (Y -> Q, Y -> P)
//       C
func testGraph(t testing.TB) *Graph {
	parents := map[string][]string{
		"A": {"R"},
		"B": {"A", "R"},
		"C": {"B"},
		"D": {"A"},
		"P": {"R"},
		"Q": {"S"},
		"X": {"P"},
		"Y": {"Q", "P"},
	}
	var terms []Term
	for i, id := range []string{"R", "S", "A", "B", "C", "D", "P", "Q", "X", "Y", "U", "V"} {
		terms = append(terms, Term{ID: id, Name: "term " + id, Genes: i})
	}
	g, err := New(parents, []string{"S", "R"}, terms)
	if err != nil {
		t.Fatalf("unexpected error constructing graph: %v", err)
	}
	return g
}

func TestAncestorPaths(t *testing.T) {
	g := testGraph(t)
	for _, test := range []struct {
		start, end string
		want       [][]string
	}{
		{start: "C", end: "R", want: [][]string{{"C", "B", "A", "R"}, {"C", "B", "R"}}},
		{start: "C", end: "A", want: [][]string{{"C", "B", "A"}}},
		{start: "R", end: "R", want: [][]string{{"R"}}},
		{start: "C", end: "S", want: nil},
		{start: "U", end: "R", want: nil},
		{start: "missing", end: "R", want: nil},
		{start: "Y", end: "S", want: [][]string{{"Y", "Q", "S"}}},
	} {
		got, err := g.AncestorPaths(test.start, test.end)
		if err != nil {
			t.Errorf("unexpected error for %s -> %s: %v", test.start, test.end, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("unexpected paths for %s -> %s:\ngot: %v\nwant:%v", test.start, test.end, got, test.want)
		}
	}
}

func TestAncestorsOf(t *testing.T) {
	g := testGraph(t)
	for _, test := range []struct {
		id   string
		want []string
	}{
		{id: "C", want: []string{"A", "B", "C", "R"}},
		{id: "R", want: []string{"R"}},
		{id: "Y", want: []string{"P", "Q", "R", "S", "Y"}},
		{id: "U", want: []string{"U"}},
		{id: "missing", want: []string{"missing"}},
	} {
		got, err := g.AncestorsOf(test.id)
		if err != nil {
			t.Errorf("unexpected error for %s: %v", test.id, err)
			continue
		}
		if !reflect.DeepEqual(got.Sorted(), test.want) {
			t.Errorf("unexpected ancestors of %s: got:%v want:%v", test.id, got.Sorted(), test.want)
		}
	}
}

func TestCommonAncestors(t *testing.T) {
	g := testGraph(t)
	for _, test := range []struct {
		ids  []string
		want []string
	}{
		{ids: []string{"C"}, want: []string{"A", "B", "C", "R"}},
		{ids: []string{"C", "D"}, want: []string{"A", "R"}},
		{ids: []string{"D", "X"}, want: []string{"R"}},
		{ids: []string{"X", "Y"}, want: []string{"P", "R"}},
		{ids: []string{"U", "V"}, want: []string{}},
		{ids: []string{"U", "C"}, want: []string{}},
		{ids: nil, want: []string{}},
	} {
		got, err := g.CommonAncestors(test.ids)
		if err != nil {
			t.Errorf("unexpected error for %v: %v", test.ids, err)
			continue
		}
		if !reflect.DeepEqual(got.Sorted(), test.want) {
			t.Errorf("unexpected common ancestors of %v: got:%v want:%v", test.ids, got.Sorted(), test.want)
		}
	}
}

func TestCycle(t *testing.T) {
	parents := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"A", "R"},
	}
	var terms []Term
	for _, id := range []string{"A", "B", "C", "R"} {
		terms = append(terms, Term{ID: id})
	}
	g, err := New(parents, []string{"R"}, terms)
	if err != nil {
		t.Fatalf("unexpected error constructing graph: %v", err)
	}

	var cycle *CycleError
	_, err = g.AncestorPaths("A", "R")
	if !errors.As(err, &cycle) {
		t.Errorf("expected cycle error from AncestorPaths: got:%v", err)
	}
	_, err = g.AncestorsOf("A")
	if !errors.As(err, &cycle) {
		t.Errorf("expected cycle error from AncestorsOf: got:%v", err)
	} else if got := cycle.Path; got[0] != "A" || got[len(got)-1] != "A" {
		t.Errorf("unexpected cycle path: %v", got)
	}
	_, err = g.CommonAncestors([]string{"R", "B"})
	if !errors.As(err, &cycle) {
		t.Errorf("expected cycle error from CommonAncestors: got:%v", err)
	}
}

func TestNewErrors(t *testing.T) {
	terms := []Term{{ID: "A"}, {ID: "R"}}
	for _, test := range []struct {
		name    string
		parents map[string][]string
		roots   []string
		terms   []Term
	}{
		{name: "unknown child", parents: map[string][]string{"Z": {"R"}}, roots: []string{"R"}, terms: terms},
		{name: "unknown parent", parents: map[string][]string{"A": {"Z"}}, roots: []string{"R"}, terms: terms},
		{name: "unknown root", roots: []string{"Z"}, terms: terms},
		{name: "duplicate term", terms: []Term{{ID: "A"}, {ID: "A"}}},
		{name: "empty id", terms: []Term{{}}},
		{name: "negative genes", terms: []Term{{ID: "A", Genes: -1}}},
	} {
		_, err := New(test.parents, test.roots, test.terms)
		if err == nil {
			t.Errorf("expected error for %s", test.name)
		}
	}
}

// randomDAG returns a graph with len(seeds) nodes where node i may have
// parents j < i selected by the bits of seeds[i]. Parentless nodes are
// roots when their seed is divisible by three, leaving some disconnected.
func randomDAG(seeds []uint32) (*Graph, error) {
	parents := make(map[string][]string)
	var roots []string
	terms := make([]Term, len(seeds))
	for i, s := range seeds {
		id := fmt.Sprint(i)
		terms[i] = Term{ID: id}
		for j := 0; j < i; j++ {
			if s&(1<<uint(j)) != 0 {
				parents[id] = append(parents[id], fmt.Sprint(j))
			}
		}
		if len(parents[id]) == 0 && s%3 == 0 {
			roots = append(roots, id)
		}
	}
	return New(parents, roots, terms)
}

func TestAncestorsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ancestors are the union of root paths", prop.ForAll(
		func(seeds []uint32) bool {
			g, err := randomDAG(seeds)
			if err != nil {
				return false
			}
			for i := range seeds {
				id := fmt.Sprint(i)
				got, err := g.AncestorsOf(id)
				if err != nil {
					return false
				}
				want := make(Set)
				for _, r := range g.Roots() {
					paths, err := g.AncestorPaths(id, r)
					if err != nil {
						return false
					}
					for _, p := range paths {
						for _, n := range p {
							want[n] = true
						}
					}
				}
				if len(want) == 0 {
					want[id] = true
				}
				if !reflect.DeepEqual(got.Sorted(), want.Sorted()) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.UInt32()),
	))

	properties.Property("single node common ancestors equal ancestors", prop.ForAll(
		func(seeds []uint32, n int) bool {
			g, err := randomDAG(seeds)
			if err != nil {
				return false
			}
			id := fmt.Sprint(n)
			a, err := g.AncestorsOf(id)
			if err != nil || len(a) == 0 {
				return false
			}
			c, err := g.CommonAncestors([]string{id})
			if err != nil {
				return false
			}
			return reflect.DeepEqual(a.Sorted(), c.Sorted())
		},
		gen.SliceOfN(10, gen.UInt32()),
		gen.IntRange(0, 9),
	))

	properties.Property("common ancestors are shared by every member", prop.ForAll(
		func(seeds []uint32, a, b int) bool {
			g, err := randomDAG(seeds)
			if err != nil {
				return false
			}
			ids := []string{fmt.Sprint(a), fmt.Sprint(b)}
			common, err := g.CommonAncestors(ids)
			if err != nil {
				return false
			}
			for _, id := range ids {
				anc, err := g.AncestorsOf(id)
				if err != nil {
					return false
				}
				for n := range common {
					if !anc[n] {
						return false
					}
				}
			}
			return sort.StringsAreSorted(common.Sorted())
		},
		gen.SliceOfN(10, gen.UInt32()),
		gen.IntRange(0, 9),
		gen.IntRange(0, 9),
	))

	properties.TestingRun(t)
}
