// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides YAML configuration of term graph construction.
package config // import "github.com/kortschak/termgraph/internal/config"

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kortschak/termgraph/internal/termgraph"
)

// Config is the term graph configuration.
type Config struct {
	// Threshold is the similarity at or above
	// which terms are joined by an edge.
	Threshold float64 `yaml:"threshold"`

	// Seed seeds layout and community detection.
	Seed uint64 `yaml:"seed"`

	Layout  Layout           `yaml:"layout"`
	Scales  termgraph.Scales `yaml:"scales"`
	Palette []string         `yaml:"palette"`

	// Window is the default rank window.
	Window Window `yaml:"window"`
}

// Layout is the graph layout configuration.
type Layout struct {
	Algorithm  string `yaml:"algorithm"`
	Iterations int    `yaml:"iterations"`
}

// Window is a rank window, [From, To).
type Window struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Default returns the default configuration.
func Default() Config {
	p := termgraph.DefaultParams()
	return Config{
		Threshold: p.Threshold,
		Seed:      p.Seed,
		Layout: Layout{
			Algorithm:  p.Layout.Algorithm,
			Iterations: p.Layout.Iterations,
		},
		Scales:  p.Scales,
		Palette: append([]string(nil), p.Palette...),
		Window:  Window{From: 0, To: 100},
	}
}

// Load returns the configuration in the YAML file at path. Fields not
// set in the file take their default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read returns the configuration in the YAML stream r. Fields not set
// in the stream take their default values. Unknown fields are an error.
func Read(r io.Reader) (Config, error) {
	c := Default()
	var buf bytes.Buffer
	_, err := io.Copy(&buf, r)
	if err != nil {
		return Config{}, err
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return c, nil
	}
	dec := yaml.NewDecoder(&buf)
	dec.KnownFields(true)
	err = dec.Decode(&c)
	if err != nil && err != io.EOF {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate returns an error if the configuration is not usable.
func (c Config) Validate() error {
	switch {
	case c.Threshold < 0:
		return fmt.Errorf("config: negative threshold: %v", c.Threshold)
	case c.Layout.Iterations < 0:
		return fmt.Errorf("config: negative layout iterations: %d", c.Layout.Iterations)
	case c.Layout.Algorithm != termgraph.FruchtermanReingold && c.Layout.Algorithm != termgraph.Eades:
		return fmt.Errorf("config: unknown layout algorithm: %q", c.Layout.Algorithm)
	case c.Scales.Position <= 0 || c.Scales.Size <= 0 || c.Scales.Edge <= 0:
		return fmt.Errorf("config: scales must be positive: %+v", c.Scales)
	case len(c.Palette) == 0:
		return fmt.Errorf("config: empty palette")
	case c.Window.From < 0 || c.Window.To < c.Window.From:
		return fmt.Errorf("config: invalid rank window: [%d,%d)", c.Window.From, c.Window.To)
	}
	return nil
}

// Params returns the pipeline parameters described by the configuration.
func (c Config) Params() termgraph.Params {
	return termgraph.Params{
		Threshold: c.Threshold,
		Seed:      c.Seed,
		Layout: termgraph.LayoutParams{
			Algorithm:  c.Layout.Algorithm,
			Iterations: c.Layout.Iterations,
			Seed:       c.Seed,
		},
		Scales:  c.Scales,
		Palette: termgraph.Palette(c.Palette),
	}
}
