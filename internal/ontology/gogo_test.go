// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"reflect"
	"strings"
	"testing"
)

const testOWL = `<?xml version="1.0"?>
<rdf:RDF xmlns="http://purl.obolibrary.org/obo/go.owl#"
     xmlns:obo="http://purl.obolibrary.org/obo/"
     xmlns:owl="http://www.w3.org/2002/07/owl#"
     xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
     xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
     xmlns:oboInOwl="http://www.geneontology.org/formats/oboInOwl#">
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0008150">
        <rdfs:label>biological_process</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0003674">
        <rdfs:label>molecular_function</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0009987">
        <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0008150"/>
        <rdfs:label>cellular process</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0008152">
        <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0008150"/>
        <rdfs:label>metabolic process</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0044237">
        <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0009987"/>
        <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0008152"/>
        <rdfs:label>cellular metabolic process</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0003824">
        <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0003674"/>
        <rdfs:label>catalytic activity</rdfs:label>
    </owl:Class>
    <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0000005">
        <rdfs:label>obsolete ribosomal chaperone activity</rdfs:label>
        <owl:deprecated rdf:datatype="http://www.w3.org/2001/XMLSchema#boolean">true</owl:deprecated>
    </owl:Class>
</rdf:RDF>
`

func TestReadOWL(t *testing.T) {
	g, err := ReadOWL(strings.NewReader(testOWL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := g.Roots(), []string{"GO:0003674", "GO:0008150"}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected roots: got:%v want:%v", got, want)
	}
	if _, ok := g.Term("GO:0000005"); ok {
		t.Error("deprecated term included in graph")
	}

	want := []Term{
		{ID: "GO:0003674", Name: "molecular_function", Depth: 0},
		{ID: "GO:0003824", Name: "catalytic activity", Depth: 1},
		{ID: "GO:0008150", Name: "biological_process", Depth: 0},
		{ID: "GO:0008152", Name: "metabolic process", Depth: 1},
		{ID: "GO:0009987", Name: "cellular process", Depth: 1},
		{ID: "GO:0044237", Name: "cellular metabolic process", Depth: 2},
	}
	if got := g.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected terms:\ngot: %+v\nwant:%+v", got, want)
	}

	if got, want := g.Parents("GO:0044237"), []string{"GO:0008152", "GO:0009987"}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected parents: got:%v want:%v", got, want)
	}

	common, err := g.CommonAncestors([]string{"GO:0044237", "GO:0009987"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := common.Sorted(), []string{"GO:0008150", "GO:0009987"}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected common ancestors: got:%v want:%v", got, want)
	}
}
