// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owl

import (
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strings"
)

// OBO is the IRI namespace of OBO foundry terms.
const OBO = "http://purl.obolibrary.org/obo/"

// Decoder is a Gene Ontology OBO in OWL class decoder. Elements other than
// top-level owl:Class elements are skipped.
type Decoder struct {
	xml        *xml.Decoder
	namespaces []xml.Attr
}

// NewDecoder returns a new Decoder that takes input from r. The XML stream
// is read up to and including the rdf:RDF start element.
func NewDecoder(r io.Reader) (*Decoder, error) {
	dec := &Decoder{xml: xml.NewDecoder(r)}
	err := dec.readHeader()
	if err != nil {
		return nil, err
	}
	return dec, nil
}

// Reset resets the decoder to use the provided io.Reader. A new XML
// namespace is obtained from the XML stream in r.
func (dec *Decoder) Reset(r io.Reader) error {
	dec.namespaces = nil
	dec.xml = xml.NewDecoder(r)
	return dec.readHeader()
}

// Namespaces returns the namespaces collected from the rdf:RDF element
// ordered longest value first. The value returned by Namespaces is valid
// after the Decoder is returned by NewDecoder or a successful Reset.
func (dec *Decoder) Namespaces() []xml.Attr {
	return dec.namespaces
}

var errNoRDF = errors.New("owl: no rdf:RDF element")

func (dec *Decoder) readHeader() error {
	for {
		tok, err := dec.xml.Token()
		if err != nil {
			if err == io.EOF {
				return errNoRDF
			}
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "RDF" {
			return errNoRDF
		}
		for _, attr := range start.Attr {
			if attr.Name.Space == "http://www.w3.org/XML/1998/namespace" {
				attr.Name.Space = "xml"
			}
			dec.namespaces = append(dec.namespaces, attr)
		}
		sort.Stable(byLength(dec.namespaces))
		return nil
	}
}

// Decode returns the next named class in the input stream. At the end of
// the stream Decode returns io.EOF.
func (dec *Decoder) Decode() (*Class, error) {
	for {
		tok, err := dec.xml.Token()
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "Class" {
			err = dec.xml.Skip()
			if err != nil {
				return nil, err
			}
			continue
		}

		var c class
		err = dec.xml.DecodeElement(&c, &start)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(c.About) == "" {
			// Anonymous classes carry no hierarchy we can name.
			continue
		}
		return c.class(), nil
	}
}

// Compact returns iri with its longest matching namespace replaced by the
// qualified name prefix of the namespace. If no namespace matches, iri is
// returned unaltered.
func (dec *Decoder) Compact(iri string) string {
	// dec.namespaces is ordered longest to shortest
	// to ensure prefixes are not eagerly chosen.
	for _, ns := range dec.namespaces {
		if ns.Name.Space != "xmlns" {
			continue
		}
		if strings.HasPrefix(iri, ns.Value) {
			suffix := strings.TrimPrefix(iri, ns.Value)
			if len(suffix) == 0 {
				return iri
			}
			return ns.Name.Local + ":" + suffix
		}
	}
	if strings.HasPrefix(iri, OBO) {
		return "obo:" + strings.TrimPrefix(iri, OBO)
	}
	return iri
}

type byLength []xml.Attr

func (a byLength) Len() int           { return len(a) }
func (a byLength) Less(i, j int) bool { return len(a[i].Value) > len(a[j].Value) }
func (a byLength) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
