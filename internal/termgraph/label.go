// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package termgraph

import (
	"fmt"

	"github.com/kortschak/termgraph/internal/ontology"
	"github.com/kortschak/termgraph/internal/similarity"
)

// NoLabel is the hover label of nodes that are not in a community with
// more than one member.
const NoLabel = "None"

// Label sets the representative and label of each community in
// communities with more than one member. Community members are node
// indices into group.
//
// The representative is the member with the most genes, the first in
// group order winning ties. The label is the name of the single common
// ancestor of the members if there is exactly one. If there are none, it
// is the name of the representative. Otherwise it is the name of the
// deepest common ancestor, ties broken by the most genes and then by the
// lexically smallest ID.
//
// Label returns an error if a member or a common ancestor is not a term
// in ont, or if the ancestor search finds a cycle.
func Label(group similarity.Group, communities []Community, ont *ontology.Graph) error {
	for ci := range communities {
		c := &communities[ci]
		c.Representative = -1
		c.Label = ""
		if len(c.Members) < 2 {
			continue
		}

		ids := make([]string, len(c.Members))
		rep := c.Members[0]
		for i, m := range c.Members {
			if m < 0 || len(group) <= m {
				return fmt.Errorf("termgraph: community %d member %d out of range", c.ID, m)
			}
			ids[i] = group[m].ID
			if _, ok := ont.Term(ids[i]); !ok {
				return fmt.Errorf("termgraph: term %q not in ontology", ids[i])
			}
			if group[m].Genes > group[rep].Genes {
				rep = m
			}
		}
		c.Representative = rep

		common, err := ont.CommonAncestors(ids)
		if err != nil {
			return err
		}
		var label ontology.Term
		switch len(common) {
		case 0:
			label, _ = ont.Term(group[rep].ID)
		default:
			first := true
			for _, id := range common.Sorted() {
				t, ok := ont.Term(id)
				if !ok {
					return fmt.Errorf("termgraph: common ancestor %q not in ontology", id)
				}
				if first || deeper(t, label) {
					label = t
					first = false
				}
			}
		}
		c.Label = label.Name
	}
	return nil
}

// deeper returns whether a is a better label than b. Candidates must be
// offered in ascending ID order.
func deeper(a, b ontology.Term) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.Genes > b.Genes
}
