// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load returns the ontology graph described by the JSON adjacency file at
// adjPath and the annotation table at annotPath. Files with a .gz suffix
// are decompressed. Terms with depth zero in the annotation are the roots
// of the graph.
func Load(adjPath, annotPath string) (*Graph, error) {
	var parents map[string][]string
	err := withReader(adjPath, func(r io.Reader) error {
		var err error
		parents, err = ReadAdjacency(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	terms, err := LoadAnnotation(annotPath)
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, t := range terms {
		if t.Depth == 0 {
			roots = append(roots, t.ID)
		}
	}
	return New(parents, roots, terms)
}

// LoadAnnotation returns the terms held in the annotation table at path.
// Files with a .gz suffix are decompressed.
func LoadAnnotation(path string) ([]Term, error) {
	var terms []Term
	err := withReader(path, func(r io.Reader) error {
		var err error
		terms, err = ReadAnnotation(r)
		return err
	})
	return terms, err
}

// withReader calls fn with a reader of the file at path, decompressing
// gzip data if the path has a .gz suffix.
func withReader(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}
	err = fn(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadAdjacency returns the child to parent adjacency encoded as a JSON
// object mapping each term ID to a list of parent term IDs.
func ReadAdjacency(r io.Reader) (map[string][]string, error) {
	var parents map[string][]string
	err := json.NewDecoder(r).Decode(&parents)
	if err != nil {
		return nil, err
	}
	return parents, nil
}

// WriteAdjacency writes the child to parent adjacency of g to w in the
// format read by ReadAdjacency.
func (g *Graph) WriteAdjacency(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(g.parents)
}

// Annotation table column names.
const (
	idColumn    = "GO_ID"
	nameColumn  = "GO_term"
	depthColumn = "depth"
	genesColumn = "genes"
)

// ReadAnnotation returns the terms held in a semicolon delimited
// annotation table. The first row is a header that must name the GO_ID,
// GO_term, depth and genes columns in any order. Other columns are
// ignored.
func ReadAnnotation(r io.Reader) ([]Term, error) {
	c := csv.NewReader(r)
	c.Comma = ';'
	c.Comment = '#'

	header, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{idColumn, nameColumn, depthColumn, genesColumn} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("missing annotation column %q", want)
		}
	}

	var terms []Term
	c.ReuseRecord = true
	for {
		rec, err := c.Read()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		id := rec[col[idColumn]]
		depth, err := strconv.Atoi(rec[col[depthColumn]])
		if err != nil {
			return nil, fmt.Errorf("error parsing depth for %q: %w", id, err)
		}
		genes, err := parseCount(rec[col[genesColumn]])
		if err != nil {
			return nil, fmt.Errorf("error parsing gene count for %q: %w", id, err)
		}
		terms = append(terms, Term{
			ID:    id,
			Name:  rec[col[nameColumn]],
			Depth: depth,
			Genes: genes,
		})
	}
	return terms, nil
}

// parseCount parses an integer count that may have been written as a
// float by a data frame library.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int(f)) {
		return 0, err
	}
	return int(f), nil
}

// WriteAnnotation writes the terms of g to w in the format read by
// ReadAnnotation.
func (g *Graph) WriteAnnotation(w io.Writer) error {
	c := csv.NewWriter(w)
	c.Comma = ';'
	err := c.Write([]string{idColumn, nameColumn, depthColumn, genesColumn})
	if err != nil {
		return err
	}
	for _, t := range g.Terms() {
		err = c.Write([]string{t.ID, t.Name, strconv.Itoa(t.Depth), strconv.Itoa(t.Genes)})
		if err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}
