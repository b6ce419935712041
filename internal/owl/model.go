// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owl

import (
	"encoding/xml"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Class is a named OWL class from the ontology.
type Class struct {
	// IRI is the full IRI of the class.
	IRI string

	// Label is the rdfs:label of the class.
	Label string

	// Namespace is the OBO namespace, for GO terms this
	// is the ontology aspect, e.g. biological_process.
	Namespace string

	// Deprecated indicates the class is obsolete.
	Deprecated bool

	// SubClassOf holds the IRIs of the named
	// super-classes of the class. Restrictions
	// are not included.
	SubClassOf []string
}

// ID returns the OBO identifier of the class, GO:0000001 for the class
// with the IRI http://purl.obolibrary.org/obo/GO_0000001. IRIs outside the
// OBO namespace are returned unaltered.
func (c *Class) ID() string {
	return OBOID(c.IRI)
}

// OBOID returns the OBO identifier corresponding to iri.
func OBOID(iri string) string {
	if !strings.HasPrefix(iri, OBO) {
		return iri
	}
	id := strings.TrimPrefix(iri, OBO)
	i := strings.LastIndex(id, "_")
	if i < 0 {
		return id
	}
	return id[:i] + ":" + id[i+1:]
}

// Predicates used by Statements. They are in the qualified name form
// expected by a locally namespaced gogo.Graph.
const (
	SubClassOf      = "<rdfs:subClassOf>"
	Label           = "<rdfs:label>"
	HasOBONamespace = "<oboInOwl:hasOBONamespace>"
	Deprecated      = "<owl:deprecated>"
)

// Statements returns the RDF statements describing c with IRIs compacted
// by dec. Subject and object UIDs are left zero so that the statements
// can be added directly to a gogo.Graph.
func (c *Class) Statements(dec *Decoder) ([]*rdf.Statement, error) {
	subj, err := rdf.NewIRITerm(dec.Compact(c.IRI))
	if err != nil {
		return nil, fmt.Errorf("owl: invalid class IRI %q: %w", c.IRI, err)
	}
	var dst []*rdf.Statement
	add := func(pred string, obj rdf.Term, err error) error {
		if err != nil {
			return fmt.Errorf("owl: invalid object for %s %s: %w", subj.Value, pred, err)
		}
		dst = append(dst, &rdf.Statement{Subject: subj, Predicate: rdf.Term{Value: pred}, Object: obj})
		return nil
	}

	for _, sup := range c.SubClassOf {
		obj, err := rdf.NewIRITerm(dec.Compact(sup))
		err = add(SubClassOf, obj, err)
		if err != nil {
			return nil, err
		}
	}
	if c.Label != "" {
		obj, err := rdf.NewLiteralTerm(c.Label, "xsd:string")
		err = add(Label, obj, err)
		if err != nil {
			return nil, err
		}
	}
	if c.Namespace != "" {
		obj, err := rdf.NewLiteralTerm(c.Namespace, "xsd:string")
		err = add(HasOBONamespace, obj, err)
		if err != nil {
			return nil, err
		}
	}
	if c.Deprecated {
		obj, err := rdf.NewLiteralTerm("true", "xsd:boolean")
		err = add(Deprecated, obj, err)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// class is the XML shape of an owl:Class element. Only the
// fields needed to reconstruct the hierarchy are retained.
type class struct {
	XMLName xml.Name

	About string `xml:"about,attr"`

	Deprecated      []rdfDataType `xml:"deprecated"`
	HasOBONamespace []rdfDataType `xml:"hasOBONamespace"`
	Label           []rdfDataType `xml:"label"`

	SubClassOf []subClassOf `xml:"subClassOf"`
}

func (c class) class() *Class {
	dst := &Class{
		IRI:        strings.TrimSpace(c.About),
		Label:      first(c.Label),
		Namespace:  first(c.HasOBONamespace),
		Deprecated: first(c.Deprecated) == "true",
	}
	for _, s := range c.SubClassOf {
		// Restrictions such as part_of are expressed as
		// nested owl:Restriction elements without a resource.
		r := strings.TrimSpace(s.Resource)
		if r == "" {
			continue
		}
		dst.SubClassOf = append(dst.SubClassOf, r)
	}
	return dst
}

func first(v []rdfDataType) string {
	for _, e := range v {
		if t := strings.TrimSpace(e.Text); t != "" {
			return t
		}
	}
	return ""
}

type subClassOf struct {
	Resource string `xml:"resource,attr"`
}

type rdfDataType struct {
	Text     string `xml:",chardata"`
	Datatype string `xml:"datatype,attr"`
}
