// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/kortschak/termgraph/internal/similarity"
)

// Payload is a self-contained description of a rendered term graph.
type Payload struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Style []Rule `json:"style"`
}

// Node is a rendered term.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Size is the display diameter of the node.
	Size float64 `json:"size"`

	// Representative is whether the term is its
	// community's representative, and RepLabel is
	// the community label if it is.
	Representative bool   `json:"representative"`
	RepLabel       string `json:"rep_label,omitempty"`

	// RepLabelHover is the label of the node's
	// community or NoLabel.
	RepLabelHover string `json:"rep_label_hover"`

	Position Point  `json:"position"`
	Class    string `json:"class"`
	Color    string `json:"color"`
}

// Edge is a rendered similarity edge.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Class  string  `json:"class"`
	Color  string  `json:"color"`
}

// Rule is a style rule applied to the elements matching Selector.
type Rule struct {
	Selector string            `json:"selector"`
	Style    map[string]string `json:"style"`
}

// Scales holds the display scale factors for a payload.
type Scales struct {
	// Position scales layout coordinates.
	Position float64 `yaml:"position"`

	// Size scales the log gene count of a node.
	Size float64 `yaml:"size"`

	// Edge scales edge similarity weights.
	Edge float64 `yaml:"edge"`
}

// DefaultScales are the default display scales.
var DefaultScales = Scales{Position: 50, Size: 10, Edge: 5}

// HoverText returns the summary text for a node.
func HoverText(n Node) string {
	return n.ID + " | " + n.Label + "\nCluster: " + n.RepLabelHover
}

// Render returns the payload for the similarity graph g over group with
// node positions in points and community assignments in communities.
// The community labels must have been set by Label.
func Render(group similarity.Group, g *similarity.Graph, points []Point, communities []Community, s Scales) (*Payload, error) {
	if len(points) != len(group) || g.Len() != len(group) {
		return nil, fmt.Errorf("termgraph: mismatched render lengths group=%d graph=%d points=%d", len(group), g.Len(), len(points))
	}

	member := make([]int, len(group))
	for i := range member {
		member[i] = -1
	}
	for ci, c := range communities {
		for _, m := range c.Members {
			if m < 0 || len(group) <= m || member[m] != -1 {
				return nil, fmt.Errorf("termgraph: invalid community member %d", m)
			}
			member[m] = ci
		}
	}

	p := &Payload{
		Nodes: make([]Node, len(group)),
		Edges: []Edge{},
		Style: baseStyle(),
	}
	for i, m := range group {
		ci := member[i]
		if ci < 0 {
			return nil, fmt.Errorf("termgraph: node %d not in a community", i)
		}
		c := communities[ci]
		n := Node{
			ID:            m.ID,
			Label:         m.Name,
			Size:          math.Log(float64(m.Genes)+2) * s.Size,
			RepLabelHover: NoLabel,
			Position:      Point{X: points[i].X * s.Position, Y: points[i].Y * s.Position},
			Class:         strconv.Itoa(c.ID),
			Color:         c.Color,
		}
		if len(c.Members) > 1 {
			n.RepLabelHover = c.Label
			if c.Representative == i {
				n.Representative = true
				n.RepLabel = c.Label
			}
		}
		p.Nodes[i] = n
	}
	for _, e := range g.Edges() {
		src := p.Nodes[e.From]
		p.Edges = append(p.Edges, Edge{
			Source: src.ID,
			Target: p.Nodes[e.To].ID,
			Weight: e.Weight * s.Edge,
			Class:  src.Class,
			Color:  src.Color,
		})
	}
	for _, c := range communities {
		p.Style = append(p.Style, Rule{
			Selector: "." + strconv.Itoa(c.ID),
			Style: map[string]string{
				"background-color": c.Color,
				"line-color":       c.Color,
				"color":            c.Color,
			},
		})
	}
	return p, nil
}

func baseStyle() []Rule {
	return []Rule{
		{Selector: "node", Style: map[string]string{"width": "data(size)", "height": "data(size)"}},
		{Selector: "edge", Style: map[string]string{"width": "data(weight)"}},
		{Selector: "[representative]", Style: map[string]string{"label": "data(rep_label)", "font-size": "20px"}},
	}
}

// ErrInconsistent is returned by Check when a payload is not internally
// consistent.
var ErrInconsistent = errors.New("inconsistent payload")

// Check returns an error wrapping ErrInconsistent if node IDs in p are
// not unique, an edge refers to a node not in p, a node size is not
// positive and finite, or a class is given more than one color.
func (p *Payload) Check() error {
	ids := make(map[string]bool, len(p.Nodes))
	colors := make(map[string]string)
	class := func(kind, id, class, color string) error {
		if c, ok := colors[class]; ok && c != color {
			return fmt.Errorf("%w: %s %s class %q color %s conflicts with %s", ErrInconsistent, kind, id, class, color, c)
		}
		colors[class] = color
		return nil
	}
	for _, n := range p.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate node %s", ErrInconsistent, n.ID)
		}
		ids[n.ID] = true
		if !(n.Size > 0) || math.IsInf(n.Size, 0) {
			return fmt.Errorf("%w: node %s has invalid size %v", ErrInconsistent, n.ID, n.Size)
		}
		err := class("node", n.ID, n.Class, n.Color)
		if err != nil {
			return err
		}
	}
	for _, e := range p.Edges {
		for _, end := range []string{e.Source, e.Target} {
			if !ids[end] {
				return fmt.Errorf("%w: edge %s--%s refers to missing node %s", ErrInconsistent, e.Source, e.Target, end)
			}
		}
		err := class("edge", e.Source+"--"+e.Target, e.Class, e.Color)
		if err != nil {
			return err
		}
	}
	return nil
}
