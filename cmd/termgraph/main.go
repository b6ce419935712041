// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// termgraph builds similarity graphs of differentially active Gene
// Ontology terms for tissue groups. For each tissue, a window of the
// ranked terms is joined by semantic similarity, laid out, clustered into
// communities and labeled by the community members' common ontology
// ancestors.
//
// The ontology is either a JSON adjacency object mapping each GO term to
// its list of parent terms accompanied by a semicolon delimited
// annotation table with GO_ID, GO_term, depth and genes columns, or a
// Gene Ontology OWL file. The goadj command converts the OWL file into
// the adjacency and annotation tables.
//
// The similarity matrix is either a NumPy .npy file of float32 or float64
// values with the term ordering given by an order file holding one term
// ID per line, or a tab-delimited table whose header holds the term IDs.
//
// The ranked terms are held in a semicolon delimited table with columns
// id, term, rank, genes, ind and tissue, and optionally hits and med_stat,
// where ind is the index of the term in the similarity matrix. Terms are
// ranked by ascending rank, then descending hits and descending med_stat.
//
// Input files with a .gz suffix are decompressed. A graph document is
// written for each tissue in JSON format corresponding to the following
// Go structs.
//
//  type GraphDoc struct {
//  	// Tissue is the tissue group of the graph.
//  	Tissue string
//
//  	// From and To are the bounds of the rank
//  	// window, [From, To).
//  	From, To int
//
//  	// Modularity is the modularity of the
//  	// community partition.
//  	Modularity float64
//
//  	// Communities holds the communities of
//  	// the graph.
//  	Communities []Community
//
//  	// Payload is the render payload.
//  	Payload *termgraph.Payload
//  }
//
//  type Community struct {
//  	ID             int
//  	Color          string
//  	Members        []string
//  	Representative string
//  	Label          string
//  }
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kortschak/termgraph/internal/config"
	"github.com/kortschak/termgraph/internal/ontology"
	"github.com/kortschak/termgraph/internal/ranking"
	"github.com/kortschak/termgraph/internal/similarity"
	"github.com/kortschak/termgraph/internal/termgraph"
)

// maxConcurrent is the number of tissue graphs built concurrently.
const maxConcurrent = 2

func main() {
	var (
		ontoPath  = flag.String("ontology", "", "specify the ontology adjacency (.json/.json.gz) or GO file (.owl/.owl.gz - required)")
		annotPath = flag.String("annot", "", "specify the term annotation table (.csv/.csv.gz - required for .json ontology)")
		simPath   = flag.String("sim", "", "specify the similarity matrix (.npy/.tsv - required)")
		orderPath = flag.String("order", "", "specify the similarity matrix term ordering")
		rankPath  = flag.String("ranks", "", "specify the ranked term table (.csv/.csv.gz - required)")
		tissues   = flag.String("tissue", "", "specify a comma separated list of tissues (default all)")
		from      = flag.Int("from", 0, "specify the first rank of the window")
		to        = flag.Int("to", 100, "specify the end of the rank window")
		confPath  = flag.String("config", "", "specify the graph configuration (.yaml)")
		out       = flag.String("out", "", "specify the graph document output prefix (default stdout)")
		plotDir   = flag.String("plot", "", "specify a directory to write graph plots")
		matDir    = flag.String("matrices", "", "specify a directory to write window similarity matrices")
		dot       = flag.Bool("dot", false, "write similarity graphs in DOT format (requires -out)")
		help      = flag.Bool("help", false, "print help text")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		fmt.Fprintf(os.Stderr, `
%s builds similarity graphs of differentially active Gene Ontology
terms for tissue groups. For each tissue, a window of the ranked terms is
joined by semantic similarity, laid out, clustered into communities and
labeled by the community members' common ontology ancestors.

The ontology is either a JSON adjacency object mapping each GO term to
its list of parent terms accompanied by a semicolon delimited annotation
table with GO_ID, GO_term, depth and genes columns, or a Gene Ontology
OWL file. If an annotation table is given with an OWL file, its gene
counts are used.

The similarity matrix is either a NumPy .npy file of float32 or float64
values with the term ordering given by an order file holding one term ID
per line, or a tab-delimited table whose header holds the term IDs.

The ranked terms are held in a semicolon delimited table with columns
id, term, rank, genes, ind and tissue, and optionally hits and med_stat,
where ind is the index of the term in the similarity matrix. Terms are
ranked by ascending rank, then descending hits and descending med_stat.

The configuration file is YAML with the following fields, shown with
their default values.

  threshold: 0.5
  seed: 0
  layout:
    algorithm: fr # or eades
    iterations: 200
  scales:
    position: 50
    size: 10
    edge: 5
  palette: [...] # Plotly Dark24
  window:
    from: 0
    to: 100

The -from and -to flags override the configured window.

Input files with a .gz suffix are decompressed. A graph document is
written for each tissue to <out>_<tissue>.json in JSON format
corresponding to the following Go structs.

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

  type Community struct {
  	ID             int
  	Color          string
  	Members        []string
  	Representative string
  	Label          string
  }

If -out is not given the documents are written to stdout as a JSON
array.

Copyright ©2021 Dan Kortschak. All rights reserved.

`, filepath.Base(os.Args[0]))
		os.Exit(0)
	}

	if *ontoPath == "" || *simPath == "" || *rankPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !isOWL(*ontoPath) && *annotPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *dot && *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	conf := config.Default()
	if *confPath != "" {
		var err error
		conf, err = config.Load(*confPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "from":
			conf.Window.From = *from
		case "to":
			conf.Window.To = *to
		}
	})
	err := conf.Validate()
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range []string{*plotDir, *matDir} {
		if d == "" {
			continue
		}
		err := os.MkdirAll(d, 0o755)
		if err != nil {
			log.Fatal(err)
		}
	}

	log.Println("[loading ontology]")
	onto, err := loadOntology(*ontoPath, *annotPath)
	if err != nil {
		log.Fatalf("failed to load ontology: %v", err)
	}

	log.Println("[loading similarity matrix]")
	sim, err := similarity.Load(*simPath, *orderPath)
	if err != nil {
		log.Fatalf("failed to load similarity matrix: %v", err)
	}

	log.Println("[loading ranked terms]")
	ranks, err := ranking.Load(*rankPath)
	if err != nil {
		log.Fatalf("failed to load ranked terms: %v", err)
	}

	names := ranks.Tissues()
	if *tissues != "" {
		names = strings.Split(*tissues, ",")
	}

	ctx := &termgraph.Context{
		Ontology: onto,
		Matrix:   sim,
		Params:   conf.Params(),
	}

	log.Println("[building term graphs]")
	docs := make([]*GraphDoc, len(names))
	sema := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	for i, tissue := range names {
		i := i
		tissue := strings.TrimSpace(tissue)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sema <- struct{}{}
			defer func() { <-sema }()

			if ranks.Len(tissue) == 0 {
				log.Printf("no ranked terms for %q", tissue)
			}
			group := ranks.Window(tissue, conf.Window.From, conf.Window.To)
			res, err := ctx.Build(group)
			if err != nil {
				log.Printf("%s: %v", tissue, err)
				return
			}
			docs[i] = newGraphDoc(tissue, conf.Window.From, conf.Window.To, res)
			var isolated int
			for j := 0; j < res.Graph.Len(); j++ {
				if res.Graph.Degree(j) == 0 {
					isolated++
				}
			}
			log.Printf("%s: %d terms (%d isolated) %d edges %d communities Q=%.3f",
				tissue, len(res.Payload.Nodes), isolated, len(res.Payload.Edges), len(res.Communities), res.Modularity)

			err = writeOutputs(*out, *plotDir, *matDir, *dot, docs[i], res, sim)
			if err != nil {
				log.Printf("%s: %v", tissue, err)
			}
		}()
	}
	wg.Wait()

	if *out == "" {
		var built []*GraphDoc
		for _, d := range docs {
			if d != nil {
				built = append(built, d)
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "\t")
		err = enc.Encode(built)
		if err != nil {
			log.Fatal(err)
		}
	}
}

// loadOntology returns the ontology held in the adjacency or OWL file at
// path. For OWL files, gene counts are taken from the annotation table at
// annotPath if it is not empty.
func loadOntology(path, annotPath string) (*ontology.Graph, error) {
	if !isOWL(path) {
		return ontology.Load(path, annotPath)
	}
	g, err := ontology.LoadOWL(path)
	if err != nil {
		return nil, err
	}
	if annotPath == "" {
		return g, nil
	}
	terms, err := ontology.LoadAnnotation(annotPath)
	if err != nil {
		return nil, err
	}
	genes := make(map[string]int, len(terms))
	for _, t := range terms {
		genes[t.ID] = t.Genes
	}
	return g.WithGenes(genes)
}

func isOWL(path string) bool {
	return strings.HasSuffix(strings.TrimSuffix(path, ".gz"), ".owl")
}
