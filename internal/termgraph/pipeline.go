// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"fmt"

	"github.com/kortschak/termgraph/internal/ontology"
	"github.com/kortschak/termgraph/internal/similarity"
)

// Params holds the pipeline parameters.
type Params struct {
	// Threshold is the similarity at or above
	// which terms are joined by an edge.
	Threshold float64

	// Seed seeds the layout and community
	// detection.
	Seed uint64

	Layout  LayoutParams
	Scales  Scales
	Palette Palette
}

// DefaultParams returns the default pipeline parameters.
func DefaultParams() Params {
	return Params{
		Threshold: similarity.DefaultThreshold,
		Layout:    LayoutParams{Algorithm: FruchtermanReingold, Iterations: defaultIterations},
		Scales:    DefaultScales,
		Palette:   Dark24,
	}
}

// Context holds the shared read-only data for building term graphs.
// Build may be called concurrently. A zero Scales or empty Palette in
// Params is replaced by DefaultScales or Dark24.
type Context struct {
	Ontology *ontology.Graph
	Matrix   *similarity.Matrix
	Params   Params
}

// Result is a built term graph.
type Result struct {
	Payload *Payload

	// Graph is the similarity graph the payload
	// was rendered from.
	Graph *similarity.Graph

	Communities []Community
	Modularity  float64
}

// BuildError is the error returned by Context.Build when a term graph
// cannot be built.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return "unable to build term graph for the current selection: " + e.Err.Error()
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build returns the term graph for group. An empty group results in an
// empty payload. Every member of group must be a term in the ontology.
// Any failure is returned as a *BuildError.
func (c *Context) Build(group similarity.Group) (*Result, error) {
	for _, m := range group {
		if _, ok := c.Ontology.Term(m.ID); !ok {
			return nil, &BuildError{fmt.Errorf("termgraph: term %q not in ontology", m.ID)}
		}
	}
	g, err := similarity.Build(group, c.Matrix, c.Params.Threshold)
	if err != nil {
		return nil, &BuildError{err}
	}
	layout := c.Params.Layout
	layout.Seed = c.Params.Seed
	points, err := Layout(g, layout)
	if err != nil {
		return nil, &BuildError{err}
	}
	palette := c.Params.Palette
	if len(palette) == 0 {
		palette = Dark24
	}
	part := Detect(g, c.Params.Seed, palette)
	err = Label(group, part.Communities, c.Ontology)
	if err != nil {
		return nil, &BuildError{err}
	}
	scales := c.Params.Scales
	if scales == (Scales{}) {
		scales = DefaultScales
	}
	p, err := Render(group, g, points, part.Communities, scales)
	if err != nil {
		return nil, &BuildError{err}
	}
	return &Result{
		Payload:     p,
		Graph:       g,
		Communities: part.Communities,
		Modularity:  part.Modularity,
	}, nil
}
