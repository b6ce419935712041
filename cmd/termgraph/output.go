// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kortschak/termgraph/internal/plotting"
	"github.com/kortschak/termgraph/internal/similarity"
	"github.com/kortschak/termgraph/internal/termgraph"
)

// GraphDoc is the output document for a tissue graph.
type GraphDoc struct {
	// Tissue is the tissue group of the graph.
	Tissue string

	// From and To are the bounds of the rank
	// window, [From, To).
	From, To int

	// Modularity is the modularity of the
	// community partition.
	Modularity float64

	// Communities holds the communities of
	// the graph.
	Communities []Community

	// Payload is the render payload.
	Payload *termgraph.Payload
}

// Community is a summary of a graph community with members identified
// by term ID.
type Community struct {
	ID             int
	Color          string
	Members        []string
	Representative string `json:",omitempty"`
	Label          string `json:",omitempty"`
}

func newGraphDoc(tissue string, from, to int, res *termgraph.Result) *GraphDoc {
	doc := &GraphDoc{
		Tissue:      tissue,
		From:        from,
		To:          to,
		Modularity:  res.Modularity,
		Communities: make([]Community, len(res.Communities)),
		Payload:     res.Payload,
	}
	for i, c := range res.Communities {
		members := make([]string, len(c.Members))
		for j, m := range c.Members {
			members[j] = res.Payload.Nodes[m].ID
		}
		doc.Communities[i] = Community{
			ID:      c.ID,
			Color:   c.Color,
			Members: members,
			Label:   c.Label,
		}
		if c.Representative >= 0 {
			doc.Communities[i].Representative = res.Payload.Nodes[c.Representative].ID
		}
	}
	return doc
}

// writeOutputs writes the graph document and its DOT, plot and matrix
// renderings according to the provided output destinations.
func writeOutputs(out, plotDir, matDir string, dot bool, doc *GraphDoc, res *termgraph.Result, sim *similarity.Matrix) error {
	name := fileName(doc.Tissue)
	if out != "" {
		b, err := json.MarshalIndent(doc, "", "\t")
		if err != nil {
			return err
		}
		err = ioutil.WriteFile(out+"_"+name+".json", b, 0o644)
		if err != nil {
			return err
		}
		if dot {
			b, err := res.Graph.MarshalDOT(name)
			if err != nil {
				return err
			}
			err = ioutil.WriteFile(out+"_"+name+".dot", b, 0o644)
			if err != nil {
				return err
			}
		}
	}
	if plotDir != "" {
		title := fmt.Sprintf("%s [%d,%d)", doc.Tissue, doc.From, doc.To)
		err := plotting.Draw(doc.Payload, title, filepath.Join(plotDir, name+".png"))
		if err != nil {
			return err
		}
		err = plotting.Sizes(doc.Payload, title, filepath.Join(plotDir, name+"_sizes.png"))
		if err != nil {
			return err
		}
	}
	if matDir != "" && res.Graph.Len() != 0 {
		err := writeMatrix(filepath.Join(matDir, name+".tsv"), res.Graph.Group(), sim)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix writes the similarities between the members of group in
// the tab-delimited format read by similarity.ReadTSV.
func writeMatrix(path string, group similarity.Group, sim *similarity.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	_, err = f.WriteString(strings.Join(group.IDs(), "\t"))
	if err != nil {
		return err
	}
	_, err = f.Write([]byte{'\n'})
	if err != nil {
		return err
	}
	for _, r := range group {
		for j, c := range group {
			if j != 0 {
				_, err = f.Write([]byte{'\t'})
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(f, "%v", sim.At(r.Index, c.Index))
			if err != nil {
				return err
			}
		}
		_, err = f.Write([]byte{'\n'})
		if err != nil {
			return err
		}
	}
	return nil
}

// fileName returns a file name safe version of a tissue name.
func fileName(tissue string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, tissue)
}
