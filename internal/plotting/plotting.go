// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plotting draws term graph payloads as images.
package plotting // import "github.com/kortschak/termgraph/internal/plotting"

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kortschak/termgraph/internal/termgraph"
)

// Draw renders the payload p to the image file at path. The image format
// is determined by the path extension. Edges are drawn as lines with a
// width proportional to their weight, nodes as circles scaled by their
// size and representative nodes are labeled with their community label.
func Draw(p *termgraph.Payload, title, path string) error {
	plt := plot.New()
	plt.Title.Text = title
	plt.HideAxes()

	pos := make(map[string]plotter.XY, len(p.Nodes))
	for _, n := range p.Nodes {
		pos[n.ID] = plotter.XY{X: n.Position.X, Y: n.Position.Y}
	}

	for _, e := range p.Edges {
		src, ok := pos[e.Source]
		if !ok {
			return fmt.Errorf("plotting: missing edge source %s", e.Source)
		}
		dst, ok := pos[e.Target]
		if !ok {
			return fmt.Errorf("plotting: missing edge target %s", e.Target)
		}
		l, err := plotter.NewLine(plotter.XYs{src, dst})
		if err != nil {
			return err
		}
		l.Color, err = parseHex(e.Color)
		if err != nil {
			return err
		}
		l.Width = vg.Points(e.Weight / 4)
		plt.Add(l)
	}

	if len(p.Nodes) != 0 {
		xys := make(plotter.XYs, len(p.Nodes))
		colors := make([]color.Color, len(p.Nodes))
		var (
			reps   plotter.XYs
			labels []string
		)
		for i, n := range p.Nodes {
			xys[i] = pos[n.ID]
			c, err := parseHex(n.Color)
			if err != nil {
				return err
			}
			colors[i] = c
			if n.Representative {
				reps = append(reps, xys[i])
				labels = append(labels, n.RepLabel)
			}
		}
		nodes, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		nodes.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  colors[i],
				Radius: vg.Points(p.Nodes[i].Size / 8),
				Shape:  draw.CircleGlyph{},
			}
		}
		plt.Add(nodes)

		if len(reps) != 0 {
			l, err := plotter.NewLabels(plotter.XYLabels{XYs: reps, Labels: labels})
			if err != nil {
				return err
			}
			plt.Add(l)
		}
	}

	return plt.Save(18*vg.Centimeter, 15*vg.Centimeter, path)
}

// Sizes plots the number of members of each community in descending
// order on a log scale to the image file at path.
func Sizes(p *termgraph.Payload, title, path string) error {
	n := make(map[string]int)
	for _, nd := range p.Nodes {
		n[nd.Class]++
	}
	sizes := make([]float64, 0, len(n))
	for _, c := range n {
		sizes = append(sizes, float64(c))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Community Sizes\n%s", title)
	plt.X.Label.Text = "community"
	plt.Y.Label.Text = "members"
	plt.Y.Scale = logScale{}
	plt.Y.Tick.Marker = logTicks{}
	if len(sizes) != 0 {
		sizeXYs := sliceToXYs(sizes)
		values, err := plotter.NewLine(sizeXYs)
		if err != nil {
			return err
		}
		points, err := plotter.NewScatter(sizeXYs)
		if err != nil {
			return err
		}
		plt.Add(values, points)
	}
	return plt.Save(18*vg.Centimeter, 15*vg.Centimeter, path)
}

func sliceToXYs(s []float64) plotter.XYs {
	xy := make(plotter.XYs, len(s))
	for i, v := range s {
		xy[i] = plotter.XY{X: float64(i), Y: v}
	}
	return xy
}

// parseHex returns the color described by a #RRGGBB string.
func parseHex(s string) (color.Color, error) {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return nil, fmt.Errorf("plotting: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("plotting: invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

type logScale struct{}

func (logScale) Normalize(min, max, x float64) float64 {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)
	x = math.Max(x, 1e-16)
	logMin := math.Log(min)
	if max == min {
		return 0.5
	}
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

type logTicks struct{}

func (logTicks) Ticks(min, max float64) []plot.Tick {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)

	val := math.Pow10(int(math.Floor(math.Log10(min))))
	max = math.Pow10(int(math.Ceil(math.Log10(max))))
	var ticks []plot.Tick
	for val < max {
		for i := 1; i < 10; i++ {
			if i == 1 {
				ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'g', -1, 64)})
				continue
			}
			ticks = append(ticks, plot.Tick{Value: val * float64(i)})
		}
		val *= 10
	}
	ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'g', -1, 64)})

	return ticks
}
