// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ranking

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kortschak/termgraph/internal/similarity"
)

const testRanks = `id;term;rank;genes;ind;tissue;hits;med_stat;pval
GO:3;third;1;10;2;Brain;4;1.5;0.01
GO:1;first;0;20;0;Brain;9;3.0;0.001
GO:2;second;1;15;1;Brain;4;2.5;0.01
GO:4;fourth;1;5;3;Brain;6;0.5;0.01
GO:5;fifth;2.0;7;4;Brain;0;0;0.2
GO:1;first;3;20;0;Liver;1;0.1;0.3
GO:6;sixth;0;2;5;Liver;8;4.0;0.0001
`

func TestRead(t *testing.T) {
	tab, err := Read(strings.NewReader(testRanks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := tab.Tissues(), []string{"Brain", "Liver"}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected tissues: got:%v want:%v", got, want)
	}
	got := tab.Window("Brain", 0, tab.Len("Brain")).IDs()
	// Rank ascending, then hits descending, then statistic descending.
	want := []string{"GO:1", "GO:4", "GO:2", "GO:3", "GO:5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected brain row order: got:%v want:%v", got, want)
	}
	if tab.Len("Liver") != 2 || tab.Len("Kidney") != 0 {
		t.Errorf("unexpected table lengths: liver=%d kidney=%d", tab.Len("Liver"), tab.Len("Kidney"))
	}
}

func TestWindow(t *testing.T) {
	tab, err := Read(strings.NewReader(testRanks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, test := range []struct {
		tissue string
		lo, hi int
		want   []string
	}{
		{tissue: "Brain", lo: 0, hi: 2, want: []string{"GO:1", "GO:4"}},
		{tissue: "Brain", lo: 1, hi: 3, want: []string{"GO:4", "GO:2"}},
		{tissue: "Brain", lo: 3, hi: 100, want: []string{"GO:3", "GO:5"}},
		{tissue: "Brain", lo: -5, hi: 1, want: []string{"GO:1"}},
		{tissue: "Brain", lo: 100, hi: 200, want: []string{}},
		{tissue: "Brain", lo: 2, hi: 2, want: []string{}},
		{tissue: "Kidney", lo: 0, hi: 100, want: []string{}},
		{tissue: "Liver", lo: 0, hi: 100, want: []string{"GO:6", "GO:1"}},
	} {
		got := tab.Window(test.tissue, test.lo, test.hi)
		if !reflect.DeepEqual(got.IDs(), test.want) {
			t.Errorf("unexpected window %s[%d:%d]: got:%v want:%v", test.tissue, test.lo, test.hi, got.IDs(), test.want)
		}
	}

	got := tab.Window("Liver", 0, 1)
	want := similarity.Group{{ID: "GO:6", Name: "sixth", Rank: 0, Genes: 2, Index: 5, Stat: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected member: got:%+v want:%+v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "missing column", data: "id;term;rank;genes;tissue\nGO:1;a;0;1;Brain\n"},
		{name: "bad rank", data: "id;term;rank;genes;ind;tissue\nGO:1;a;first;1;0;Brain\n"},
		{name: "bad stat", data: "id;term;rank;genes;ind;tissue;med_stat\nGO:1;a;0;1;0;Brain;high\n"},
	} {
		_, err := Read(strings.NewReader(test.data))
		if err == nil {
			t.Errorf("expected error for %s table", test.name)
		}
	}
}
