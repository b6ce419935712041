// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"fmt"
	"strings"
)

// CycleError is returned when an ancestry query finds a cycle in the
// ontology graph. A cycle indicates corrupt input data.
type CycleError struct {
	// Path is the walk that closed the cycle. The
	// last element is repeated earlier in Path.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("ontology: cycle in term graph: %s", strings.Join(e.Path, " -> "))
}

// frame is an element of the explicit depth-first search stack.
type frame struct {
	id   string
	next int // index of the next parent to visit
}

// AncestorPaths returns every simple path from start to end following
// parent edges. Each path begins with start and ends with end. If end is
// not reachable from start, the result is empty. A cycle on any explored
// path is reported as a *CycleError.
func (g *Graph) AncestorPaths(start, end string) ([][]string, error) {
	var paths [][]string
	stack := []frame{{id: start}}
	onPath := map[string]bool{start: true}
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		if top.id == end {
			paths = append(paths, pathOf(stack))
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			continue
		}

		parents := g.parents[top.id]
		if top.next == len(parents) {
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		p := parents[top.next]
		top.next++
		if onPath[p] {
			return nil, &CycleError{Path: append(pathOf(stack), p)}
		}
		onPath[p] = true
		stack = append(stack, frame{id: p})
	}
	return paths, nil
}

func pathOf(stack []frame) []string {
	path := make([]string, len(stack))
	for i, f := range stack {
		path[i] = f.id
	}
	return path
}

// color marks depth-first search progress in AncestorsOf.
type color int

const (
	white color = iota // unvisited
	grey               // on the current search path
	black              // finished
)

// AncestorsOf returns the set of terms lying on any path from id to any
// root, including id and the roots reached. If no root is reachable from
// id, the result is exactly {id}.
//
// The result is the set that would be obtained by taking the union of
// AncestorPaths from id to each root, but it is computed by a single
// depth-first reachability search rather than path enumeration.
func (g *Graph) AncestorsOf(id string) (Set, error) {
	isRoot := make(map[string]bool, len(g.roots))
	for _, r := range g.roots {
		isRoot[r] = true
	}

	state := map[string]color{id: grey}
	reachesRoot := make(map[string]bool)
	stack := []frame{{id: id}}
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		parents := g.parents[top.id]
		if top.next == len(parents) {
			// Post-order: all parents are finished.
			ok := isRoot[top.id]
			for _, p := range parents {
				ok = ok || reachesRoot[p]
			}
			reachesRoot[top.id] = ok
			state[top.id] = black
			stack = stack[:len(stack)-1]
			continue
		}
		p := parents[top.next]
		top.next++
		switch state[p] {
		case grey:
			return nil, &CycleError{Path: append(pathOf(stack), p)}
		case black:
			continue
		}
		state[p] = grey
		stack = append(stack, frame{id: p})
	}

	ancestors := make(Set)
	for n, ok := range reachesRoot {
		if ok {
			ancestors[n] = true
		}
	}
	if len(ancestors) == 0 {
		// A term is its own ancestor when no root can be reached.
		return Set{id: true}, nil
	}
	return ancestors, nil
}

// CommonAncestors returns the intersection of AncestorsOf for each of the
// given term IDs. The result is empty if ids is empty or the terms share
// no ancestor.
func (g *Graph) CommonAncestors(ids []string) (Set, error) {
	var common Set
	for i, id := range ids {
		a, err := g.AncestorsOf(id)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			common = a
			continue
		}
		for n := range common {
			if !a[n] {
				delete(common, n)
			}
		}
	}
	if common == nil {
		common = make(Set)
	}
	return common, nil
}
