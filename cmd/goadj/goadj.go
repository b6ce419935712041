// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// goadj converts a Gene Ontology OWL file into the term adjacency and
// annotation tables used by termgraph.
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kortschak/termgraph/internal/ontology"
)

func main() {
	var (
		ontoPath  = flag.String("ontology", "", "specify the GO file (.owl/.owl.gz - required)")
		mapPath   = flag.String("map", "", "specify the GO to gene mapping (.nt/.nt.gz/.nq.gz)")
		adjPath   = flag.String("adj", "", "specify the adjacency output (.json/.json.gz - required)")
		annotPath = flag.String("annot", "", "specify the annotation output (.csv/.csv.gz - required)")
		help      = flag.Bool("help", false, "print help text")
	)

	flag.Parse()

	if *help {
		flag.Usage()
		fmt.Fprintf(os.Stderr, `
%s converts a Gene Ontology OWL file into a term adjacency JSON object
mapping each GO term to its list of subclass parents, and a semicolon
delimited annotation table with the columns:

 GO_ID;GO_term;depth;genes

Depth is the shortest subclass distance from the term's root. Deprecated
terms are omitted.

The Gene Ontology is required to be in Owl format. The file can be
obtained from http://current.geneontology.org/ontology/go.owl.

If a GO to gene mapping is provided, the genes column holds the number of
distinct genes annotated to each term or any of its descendants, otherwise
it is zero. The mapping is expected to be in RDF N-Triples or N-Quads in
the form:

 <obo:GO_0000000> <local:annotates> <ensembl:ENSG00000000000> .

Input and output files with a .gz suffix are gzip compressed.

Copyright ©2021 Dan Kortschak. All rights reserved.

`, filepath.Base(os.Args[0]))
		os.Exit(0)
	}

	if *ontoPath == "" || *adjPath == "" || *annotPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	log.Println("[loading ontology]")
	g, err := ontology.LoadOWL(*ontoPath)
	if err != nil {
		log.Fatalf("failed to load ontology: %v", err)
	}
	log.Printf("loaded %d terms with roots %v", g.Len(), g.Roots())

	if *mapPath != "" {
		log.Println("[counting annotated genes]")
		counts, err := geneCounts(g, *mapPath)
		if err != nil {
			log.Fatalf("failed to count genes: %v", err)
		}
		g, err = g.WithGenes(counts)
		if err != nil {
			log.Fatalf("failed to annotate genes: %v", err)
		}
	}

	log.Println("[writing adjacency]")
	err = create(*adjPath, g.WriteAdjacency)
	if err != nil {
		log.Fatalf("failed to write adjacency: %v", err)
	}
	log.Println("[writing annotation]")
	err = create(*annotPath, g.WriteAnnotation)
	if err != nil {
		log.Fatalf("failed to write annotation: %v", err)
	}
}

// create calls fn with a writer to a new file at path, compressing the
// data if the path has a .gz suffix.
func create(path string, fn func(io.Writer) error) (err error) {
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

	if !strings.HasSuffix(path, ".gz") {
		return fn(f)
	}
	w := gzip.NewWriter(f)
	err = fn(w)
	if err != nil {
		return err
	}
	return w.Close()
}
