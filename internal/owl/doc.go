// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package owl implements a lean decoder for the class hierarchy held in a
// Gene Ontology OBO in OWL RDF/XML file. It is not an RDF/XML parser; only
// the owl:Class elements needed to reconstruct the subclass DAG and the
// term labels are decoded.
package owl // import "github.com/kortschak/termgraph/internal/owl"
