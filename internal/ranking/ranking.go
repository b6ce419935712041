// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ranking provides per-tissue tables of ontology terms ranked by
// differential activity and the selection of rank windows from them.
package ranking // import "github.com/kortschak/termgraph/internal/ranking"

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kortschak/termgraph/internal/similarity"
)

// Row is a ranked ontology term for a tissue.
type Row struct {
	ID     string
	Term   string
	Tissue string

	// Rank is the significance rank of the term
	// within the tissue, lower is more significant.
	Rank int

	// Genes is the number of genes annotated to the
	// term and Hits is the number of significant
	// tests for the term.
	Genes, Hits int

	// Index is the index of the term in the
	// similarity matrix.
	Index int

	// Stat is the median test statistic.
	Stat float64
}

// Table holds ranked rows grouped by tissue. Within each tissue the rows
// are ordered by ascending rank, then descending hits, then descending
// statistic and finally by term ID.
type Table struct {
	tissues map[string][]Row
}

// Load returns the ranked table held in the file at path. Files with a
// .gz suffix are decompressed.
func Load(path string) (*Table, error) {
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
	t, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Table column names. The hits and med_stat columns are optional.
const (
	idColumn     = "id"
	termColumn   = "term"
	rankColumn   = "rank"
	genesColumn  = "genes"
	indexColumn  = "ind"
	tissueColumn = "tissue"
	hitsColumn   = "hits"
	statColumn   = "med_stat"
)

// Read returns the ranked table held in a semicolon delimited stream. The
// first row is a header naming the columns; id, term, rank, genes, ind and
// tissue are required, hits and med_stat are optional. Other columns are
// ignored.
func Read(r io.Reader) (*Table, error) {
	c := csv.NewReader(r)
	c.Comma = ';'
	c.Comment = '#'

	header, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{idColumn, termColumn, rankColumn, genesColumn, indexColumn, tissueColumn} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("missing ranking column %q", want)
		}
	}

	t := &Table{tissues: make(map[string][]Row)}
	c.ReuseRecord = true
	for line := 2; ; line++ {
		rec, err := c.Read()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		row := Row{
			ID:     rec[col[idColumn]],
			Term:   rec[col[termColumn]],
			Tissue: rec[col[tissueColumn]],
		}
		for _, f := range []struct {
			name string
			dst  *int
		}{
			{name: rankColumn, dst: &row.Rank},
			{name: genesColumn, dst: &row.Genes},
			{name: indexColumn, dst: &row.Index},
			{name: hitsColumn, dst: &row.Hits},
		} {
			i, ok := col[f.name]
			if !ok {
				continue
			}
			*f.dst, err = parseInt(rec[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: error parsing %s for %q: %w", line, f.name, row.ID, err)
			}
		}
		if i, ok := col[statColumn]; ok {
			row.Stat, err = strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: error parsing %s for %q: %w", line, statColumn, row.ID, err)
			}
		}
		t.tissues[row.Tissue] = append(t.tissues[row.Tissue], row)
	}

	for _, rows := range t.tissues {
		sort.Sort(byRank(rows))
	}
	return t, nil
}

// parseInt parses an integer that may have been written as a float by a
// data frame library.
func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int(f)) {
		return 0, err
	}
	return int(f), nil
}

// Tissues returns the sorted names of the tissues in the table.
func (t *Table) Tissues() []string {
	names := make([]string, 0, len(t.tissues))
	for name := range t.tissues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of ranked rows for the tissue.
func (t *Table) Len(tissue string) int {
	return len(t.tissues[tissue])
}

// Window returns the rows ranked in [lo, hi) for the tissue as a
// similarity.Group. The window is clipped to the available rows and is
// empty if it holds no rows.
func (t *Table) Window(tissue string, lo, hi int) similarity.Group {
	rows := t.tissues[tissue]
	if lo < 0 {
		lo = 0
	}
	if hi > len(rows) {
		hi = len(rows)
	}
	if lo >= hi {
		return similarity.Group{}
	}
	group := make(similarity.Group, 0, hi-lo)
	for _, r := range rows[lo:hi] {
		group = append(group, similarity.Member{
			ID:    r.ID,
			Name:  r.Term,
			Rank:  r.Rank,
			Genes: r.Genes,
			Index: r.Index,
			Stat:  r.Stat,
		})
	}
	return group
}

// byRank sorts rows by ascending rank, descending hits, descending
// statistic and ascending ID.
type byRank []Row

func (r byRank) Len() int { return len(r) }
func (r byRank) Less(i, j int) bool {
	switch {
	case r[i].Rank != r[j].Rank:
		return r[i].Rank < r[j].Rank
	case r[i].Hits != r[j].Hits:
		return r[i].Hits > r[j].Hits
	case r[i].Stat != r[j].Stat:
		return r[i].Stat > r[j].Stat
	default:
		return r[i].ID < r[j].ID
	}
}
func (r byRank) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
