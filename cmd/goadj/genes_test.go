// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kortschak/termgraph/internal/ontology"
)

const testMapping = `<obo:GO_0000002> <local:annotates> <ensembl:ENSG00000000001> .
<obo:GO_0000003> <local:annotates> <ensembl:ENSG00000000001> .
<obo:GO_0000003> <local:annotates> <ensembl:ENSG00000000002> .
<obo:GO_0000004> <local:annotates> <ensembl:ENSG00000000003> .
<obo:GO_0000009> <local:annotates> <ensembl:ENSG00000000003> .
<transcript:ENST00000000001> <rdfs:seeAlso> <obo:GO_0000002> .
`

func TestGeneCounts(t *testing.T) {
	// GO:0000001 is the root with children GO:0000002 and GO:0000004.
	// GO:0000003 is a child of GO:0000002.
	g, err := ontology.New(
		map[string][]string{
			"GO:0000002": {"GO:0000001"},
			"GO:0000003": {"GO:0000002"},
			"GO:0000004": {"GO:0000001"},
		},
		[]string{"GO:0000001"},
		[]ontology.Term{
			{ID: "GO:0000001", Depth: 0},
			{ID: "GO:0000002", Depth: 1},
			{ID: "GO:0000003", Depth: 2},
			{ID: "GO:0000004", Depth: 1},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error constructing ontology: %v", err)
	}

	annotations, err := readAnnotations(strings.NewReader(testMapping))
	if err != nil {
		t.Fatalf("unexpected error reading annotations: %v", err)
	}
	if len(annotations) != 3 {
		t.Errorf("unexpected number of annotated genes: got:%d want:3", len(annotations))
	}

	got, err := countGenes(g, annotations)
	if err != nil {
		t.Fatalf("unexpected error counting genes: %v", err)
	}
	want := map[string]int{
		"GO:0000001": 3,
		"GO:0000002": 2,
		"GO:0000003": 2,
		"GO:0000004": 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected gene counts:\ngot: %v\nwant:%v", got, want)
	}
}
