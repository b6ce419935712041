// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package termgraph lays out, clusters and labels similarity graphs of
// ontology terms and merges the results into a render payload.
//
// A request runs through Context.Build: the selected terms are joined by
// similarity, positioned by a seeded force layout and partitioned into
// communities by Louvain modularity optimisation. Each community with
// more than one member is given a representative term and a label
// derived from the members' common ontology ancestors.
package termgraph // import "github.com/kortschak/termgraph/internal/termgraph"
