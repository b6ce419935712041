// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"compress/gzip"
	"io"
	"log"
	"os"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/kortschak/termgraph/internal/ontology"
	"github.com/kortschak/termgraph/internal/owl"
)

// geneCounts returns the number of distinct genes annotated to each term
// of g or its descendants from the statements in path. The statements are
// expected to have local IRI namespaces and be in the following form:
//
//   <obo:GO_0000000> <local:annotates> <ensembl:ENSG00000000000> .
//
// Other statements are ignored.
func geneCounts(g *ontology.Graph, path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	annotations, err := readAnnotations(r)
	if err != nil {
		return nil, err
	}
	return countGenes(g, annotations)
}

// readAnnotations returns the GO term IDs annotated to each gene in the
// RDF statements read from r.
func readAnnotations(r io.Reader) (map[string][]string, error) {
	annotations := make(map[string][]string)
	dec := rdf.NewDecoder(r)
	for {
		s, err := dec.Unmarshal()
		if err != nil {
			if err == io.EOF {
				return annotations, nil
			}
			return nil, err
		}
		if s.Predicate.Value != "<local:annotates>" || !strings.HasPrefix(s.Subject.Value, "<obo:GO_") {
			continue
		}
		id := owl.OBOID(owl.OBO + strings.TrimSuffix(strings.TrimPrefix(s.Subject.Value, "<obo:"), ">"))
		gene := s.Object.Value
		annotations[gene] = append(annotations[gene], id)
	}
}

// countGenes returns the number of distinct genes annotated to each term
// of g or its descendants. Annotations to terms not in g are logged and
// ignored.
func countGenes(g *ontology.Graph, annotations map[string][]string) (map[string]int, error) {
	ancestors := make(map[string]ontology.Set)
	counts := make(map[string]int)
	for gene, terms := range annotations {
		reached := make(ontology.Set)
		for _, id := range terms {
			if _, ok := g.Term(id); !ok {
				log.Printf("no term %s for %s", id, gene)
				continue
			}
			a, ok := ancestors[id]
			if !ok {
				var err error
				a, err = g.AncestorsOf(id)
				if err != nil {
					return nil, err
				}
				ancestors[id] = a
			}
			for t := range a {
				reached[t] = true
			}
		}
		for t := range reached {
			counts[t]++
		}
	}
	return counts, nil
}
