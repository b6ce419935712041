// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package similarity provides the pairwise semantic similarity matrix over
// ontology terms and the construction of thresholded similarity graphs
// from it.
package similarity // import "github.com/kortschak/termgraph/internal/similarity"

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// symmetryTol is the largest tolerated difference between the (i,j) and
// (j,i) elements of a similarity matrix.
const symmetryTol = 1e-9

// Matrix is a symmetric pairwise similarity matrix indexed by a canonical
// ordering of ontology terms. A Matrix is not mutated after construction
// and is safe for concurrent use.
type Matrix struct {
	sym   *mat.SymDense
	ids   []string
	index map[string]int
}

// NewMatrix returns a new Matrix holding a copy of the data in a. The
// elements of a must be symmetric, finite and non-negative. If ids is not
// nil, it is the term ID for each row of a.
func NewMatrix(a mat.Matrix, ids []string) (*Matrix, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("similarity: matrix is not square: %d×%d", r, c)
	}
	if r == 0 {
		return nil, errors.New("similarity: empty matrix")
	}
	if ids != nil && len(ids) != r {
		return nil, fmt.Errorf("similarity: term ordering length mismatch: %d terms for %d rows", len(ids), r)
	}
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			v := a.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("similarity: invalid value at (%d,%d): %v", i, j, v)
			}
			if math.Abs(v-a.At(j, i)) > symmetryTol {
				return nil, fmt.Errorf("similarity: matrix is not symmetric at (%d,%d)", i, j)
			}
			sym.SetSym(i, j, v)
		}
	}
	m := &Matrix{sym: sym}
	if ids != nil {
		m.ids = append([]string(nil), ids...)
		m.index = make(map[string]int, len(ids))
		for i, id := range ids {
			if _, exists := m.index[id]; exists {
				return nil, fmt.Errorf("similarity: duplicate term %q in ordering", id)
			}
			m.index[id] = i
		}
	}
	return m, nil
}

// Len returns the number of terms indexed by the matrix.
func (m *Matrix) Len() int { return m.sym.SymmetricDim() }

// At returns the similarity between the terms at index i and j.
func (m *Matrix) At(i, j int) float64 { return m.sym.At(i, j) }

// ID returns the term ID at index i and whether the matrix has a term
// ordering.
func (m *Matrix) ID(i int) (id string, ok bool) {
	if m.ids == nil {
		return "", false
	}
	return m.ids[i], true
}

// Index returns the index of the term with the given ID.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Sub returns the principal submatrix of m selected by idx, preserving the
// order of idx.
func (m *Matrix) Sub(idx []int) (*mat.SymDense, error) {
	if len(idx) == 0 {
		return nil, errors.New("similarity: empty submatrix selection")
	}
	n := m.Len()
	sub := mat.NewSymDense(len(idx), nil)
	for i, u := range idx {
		if u < 0 || n <= u {
			return nil, fmt.Errorf("similarity: index %d out of range for %d terms", u, n)
		}
		for j := i; j < len(idx); j++ {
			sub.SetSym(i, j, m.sym.At(u, idx[j]))
		}
	}
	return sub, nil
}

// Load returns the similarity matrix held in the file at path with the
// term ordering held in the file at orderPath. NumPy .npy files and
// tab-delimited tables are accepted, with an optional .gz suffix. If path
// is a table, its header provides the ordering and orderPath may be
// empty. For .npy files with an empty orderPath, the matrix has no term
// ordering.
func Load(path, orderPath string) (*Matrix, error) {
	var ids []string
	if orderPath != "" {
		err := withReader(orderPath, func(r io.Reader) error {
			var err error
			ids, err = ReadOrder(r)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	var m *Matrix
	err := withReader(path, func(r io.Reader) error {
		var err error
		if strings.HasSuffix(strings.TrimSuffix(path, ".gz"), ".npy") {
			var a mat.Matrix
			a, err = ReadNPY(r)
			if err != nil {
				return err
			}
			m, err = NewMatrix(a, ids)
			return err
		}
		m, err = ReadTSV(r)
		if err != nil {
			return err
		}
		if ids != nil {
			if len(ids) != len(m.ids) {
				return fmt.Errorf("term ordering length mismatch: %d terms for %d rows", len(ids), len(m.ids))
			}
			for i, id := range ids {
				if m.ids[i] != id {
					return fmt.Errorf("term ordering mismatch at %d: %q != %q", i, id, m.ids[i])
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// withReader calls fn with a reader of the file at path, decompressing
// gzip data if the path has a .gz suffix.
func withReader(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}
	err = fn(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadOrder returns the term ordering held in r, one term ID per line.
// Blank lines are ignored.
func ReadOrder(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, sc.Err()
}

// ReadNPY returns the square matrix held in a NumPy .npy stream. Both
// float32 and float64 data are accepted.
func ReadNPY(r io.Reader) (*mat.Dense, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	shape := npy.Header.Descr.Shape
	if len(shape) != 2 || shape[0] != shape[1] {
		return nil, fmt.Errorf("similarity: npy data is not a square matrix: shape %v", shape)
	}
	n := shape[0]
	if n == 0 {
		return nil, errors.New("similarity: empty npy matrix")
	}

	var data []float64
	switch strings.TrimLeft(npy.Header.Descr.Type, "<>|=") {
	case "f4":
		var f32 []float32
		err = npy.Read(&f32)
		if err != nil {
			return nil, err
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	case "f8":
		err = npy.Read(&data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("similarity: unsupported npy data type %q", npy.Header.Descr.Type)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("similarity: npy data length mismatch: %d != %d", len(data), n*n)
	}

	m := mat.NewDense(n, n, data)
	if npy.Header.Descr.Fortran {
		return mat.DenseCopyOf(m.T()), nil
	}
	return m, nil
}

// ReadTSV returns the similarity matrix held in a tab-delimited table.
// The first row holds the term IDs and each following row holds the
// similarities of one term in the same order.
func ReadTSV(r io.Reader) (*Matrix, error) {
	c := csv.NewReader(r)
	c.Comma = '\t'
	c.Comment = '#'

	ids, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	n := len(ids)
	data := make([]float64, 0, n*n)
	c.ReuseRecord = true
	for row := 0; ; row++ {
		rec, err := c.Read()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			if row != n {
				return nil, fmt.Errorf("similarity: %d rows for %d terms", row, n)
			}
			break
		}
		if row >= n {
			return nil, errors.New("similarity: more rows than terms")
		}
		for col, f := range rec {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing value for %q at column %d: %w", ids[row], col, err)
			}
			data = append(data, v)
		}
	}
	return NewMatrix(mat.NewDense(n, n, data), ids)
}
