package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Matrix is a read-only square similarity matrix. Implementations must be
// safe for concurrent reads.
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int
	// Shape returns the matrix dimensions.
	Shape() []int
	// Row returns row i as a dense slice covering every column.
	Row(i int) ([]float64, error)
	// Sparse reports whether the backing representation is sparse.
	Sparse() bool
}

// ErrRowOutOfBounds is returned by Row for an index outside the matrix.
var ErrRowOutOfBounds = errors.New("row index out of bounds")

// DenseMatrix is a fully materialized similarity matrix.
type DenseMatrix struct {
	data [][]float64
	cols int
}

// NewDenseMatrix validates a rectangular dense matrix.
func NewDenseMatrix(data [][]float64) (*DenseMatrix, error) {
	cols := 0
	if len(data) > 0 {
		cols = len(data[0])
	}
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return &DenseMatrix{data: data, cols: cols}, nil
}

func (m *DenseMatrix) Rows() int    { return len(m.data) }
func (m *DenseMatrix) Shape() []int { return []int{len(m.data), m.cols} }
func (m *DenseMatrix) Sparse() bool { return false }

func (m *DenseMatrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(m.data) {
		return nil, ErrRowOutOfBounds
	}
	return m.data[i], nil
}

// CSRMatrix is a compressed-sparse-row similarity matrix, matching the
// layout scipy emits: row i's nonzeros live at data[indptr[i]:indptr[i+1]]
// with column positions in indices.
type CSRMatrix struct {
	shape   [2]int
	indptr  []int
	indices []int
	data    []float64
}

func (m *CSRMatrix) Rows() int    { return m.shape[0] }
func (m *CSRMatrix) Shape() []int { return []int{m.shape[0], m.shape[1]} }
func (m *CSRMatrix) Sparse() bool { return true }

// Row materializes row i only; the rest of the matrix stays sparse.
func (m *CSRMatrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.shape[0] {
		return nil, ErrRowOutOfBounds
	}
	row := make([]float64, m.shape[1])
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		row[m.indices[k]] = m.data[k]
	}
	return row, nil
}

// csrPayload is the on-disk sparse representation.
type csrPayload struct {
	Format  string    `json:"format"`
	Shape   []int     `json:"shape"`
	Indptr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

// Model wraps the similarity matrix artifact. The artifact may be stored as
// a raw matrix or as an object with a similarity_matrix key; both normalize
// to this form, and HasMatrix distinguishes a loaded model whose key was
// missing from one that carries a usable matrix.
type Model struct {
	matrix Matrix
}

// HasMatrix reports whether the model carries a similarity matrix.
func (m *Model) HasMatrix() bool {
	return m != nil && m.matrix != nil
}

// Matrix returns the similarity matrix.
func (m *Model) Matrix() (Matrix, bool) {
	if !m.HasMatrix() {
		return nil, false
	}
	return m.matrix, true
}

// ParseModel decodes a similarity model artifact. Accepted shapes:
//
//	[[...], ...]                          raw dense matrix
//	{"format": "csr", ...}                raw sparse matrix
//	{"similarity_matrix": <either>}       wrapped model
func ParseModel(raw []byte) (*Model, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty similarity artifact")
	}

	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode similarity artifact: %w", err)
		}
		if inner, ok := obj["similarity_matrix"]; ok {
			matrix, err := parseMatrix(inner)
			if err != nil {
				return nil, err
			}
			return &Model{matrix: matrix}, nil
		}
		if _, ok := obj["format"]; ok {
			matrix, err := parseMatrix(raw)
			if err != nil {
				return nil, err
			}
			return &Model{matrix: matrix}, nil
		}
		// A model object without the similarity_matrix key loads, but
		// recommendation requests against it fail with a config error.
		return &Model{}, nil
	}

	matrix, err := parseMatrix(raw)
	if err != nil {
		return nil, err
	}
	return &Model{matrix: matrix}, nil
}

func parseMatrix(raw []byte) (Matrix, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty similarity matrix")
	}

	if raw[0] == '[' {
		var dense [][]float64
		if err := json.Unmarshal(raw, &dense); err != nil {
			return nil, fmt.Errorf("decode dense matrix: %w", err)
		}
		return NewDenseMatrix(dense)
	}

	var payload csrPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode sparse matrix: %w", err)
	}
	return newCSRMatrix(payload)
}

func newCSRMatrix(p csrPayload) (*CSRMatrix, error) {
	if p.Format != "csr" {
		return nil, fmt.Errorf("unsupported sparse format %q", p.Format)
	}
	if len(p.Shape) != 2 {
		return nil, fmt.Errorf("sparse matrix shape has %d dims, want 2", len(p.Shape))
	}
	rows, cols := p.Shape[0], p.Shape[1]
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("negative matrix shape [%d, %d]", rows, cols)
	}
	if len(p.Indptr) != rows+1 {
		return nil, fmt.Errorf("indptr length %d, want %d", len(p.Indptr), rows+1)
	}
	if len(p.Indices) != len(p.Data) {
		return nil, fmt.Errorf("indices length %d does not match data length %d", len(p.Indices), len(p.Data))
	}
	prev := 0
	for i, ptr := range p.Indptr {
		if ptr < prev || ptr > len(p.Data) {
			return nil, fmt.Errorf("invalid indptr at %d", i)
		}
		prev = ptr
	}
	for k, col := range p.Indices {
		if col < 0 || col >= cols {
			return nil, fmt.Errorf("column index %d out of range at nonzero %d", col, k)
		}
	}
	return &CSRMatrix{
		shape:   [2]int{rows, cols},
		indptr:  p.Indptr,
		indices: p.Indices,
		data:    p.Data,
	}, nil
}
