package harness

import (
	"encoding/binary"
	"fmt"

	"github.com/notargets/SparseKernel/sparse"
	"github.com/zeebo/xxh3"
)

// COO is a host matrix in coordinate form, sorted by row
type COO[T sparse.Real] struct {
	M, N   int
	Base   sparse.IndexBase
	RowInd []int32
	ColInd []int32
	Val    []T
}

// Nnz returns the number of stored entries
func (c *COO[T]) Nnz() int {
	return len(c.Val)
}

// CSR is a host matrix in compressed row form
type CSR[T sparse.Real] struct {
	M, N   int
	Base   sparse.IndexBase
	RowPtr []int32 // M+1
	ColInd []int32 // Nnz
	Val    []T     // Nnz
}

// Nnz returns the number of stored entries
func (c *CSR[T]) Nnz() int {
	return len(c.Val)
}

// RowNnz returns the number of entries in row i
func (c *CSR[T]) RowNnz(i int) int {
	return int(c.RowPtr[i+1] - c.RowPtr[i])
}

// MaxRowNnz returns the length of the longest row
func (c *CSR[T]) MaxRowNnz() int {
	longest := 0
	for i := 0; i < c.M; i++ {
		longest = max(longest, c.RowNnz(i))
	}
	return longest
}

// Validate checks the structural invariants of c
func (c *CSR[T]) Validate() error {
	if len(c.RowPtr) != c.M+1 {
		return fmt.Errorf("row pointer has %d entries, want %d", len(c.RowPtr), c.M+1)
	}
	if len(c.ColInd) != len(c.Val) {
		return fmt.Errorf("%d column indices for %d values", len(c.ColInd), len(c.Val))
	}
	base := int32(c.Base)
	if c.RowPtr[0] != base || int(c.RowPtr[c.M]-base) != len(c.Val) {
		return fmt.Errorf("row pointer spans [%d, %d], want [%d, %d]",
			c.RowPtr[0], c.RowPtr[c.M], base, int(base)+len(c.Val))
	}
	for i := 0; i < c.M; i++ {
		if c.RowPtr[i+1] < c.RowPtr[i] {
			return fmt.Errorf("row pointer decreases at row %d", i)
		}
	}
	for k, col := range c.ColInd {
		if col < base || int(col-base) >= c.N {
			return fmt.Errorf("column index %d at %d out of range", col, k)
		}
	}
	return nil
}

// Fingerprint hashes the structure and values of c, for logging which
// input a result belongs to.
func (c *CSR[T]) Fingerprint() uint64 {
	h := xxh3.New()
	_ = binary.Write(h, binary.LittleEndian, [3]int64{int64(c.M), int64(c.N), int64(c.Base)})
	_ = binary.Write(h, binary.LittleEndian, c.RowPtr)
	_ = binary.Write(h, binary.LittleEndian, c.ColInd)
	_ = binary.Write(h, binary.LittleEndian, c.Val)
	return h.Sum64()
}

// COOToCSR compresses the row indices of a row-sorted COO matrix
func COOToCSR[T sparse.Real](coo *COO[T]) (*CSR[T], error) {
	base := int32(coo.Base)
	rowPtr := make([]int32, coo.M+1)
	for k, r := range coo.RowInd {
		row := int(r - base)
		if row < 0 || row >= coo.M {
			return nil, fmt.Errorf("row index %d at %d out of range", r, k)
		}
		if k > 0 && r < coo.RowInd[k-1] {
			return nil, fmt.Errorf("row indices not sorted at %d", k)
		}
		rowPtr[row+1]++
	}
	rowPtr[0] = base
	for i := 1; i <= coo.M; i++ {
		rowPtr[i] += rowPtr[i-1]
	}
	return &CSR[T]{
		M:      coo.M,
		N:      coo.N,
		Base:   coo.Base,
		RowPtr: rowPtr,
		ColInd: append([]int32(nil), coo.ColInd...),
		Val:    append([]T(nil), coo.Val...),
	}, nil
}

// ConvertCSR returns a copy of c with values converted to T
func ConvertCSR[T, U sparse.Real](c *CSR[U]) *CSR[T] {
	val := make([]T, len(c.Val))
	for i, v := range c.Val {
		val[i] = T(v)
	}
	return &CSR[T]{
		M:      c.M,
		N:      c.N,
		Base:   c.Base,
		RowPtr: append([]int32(nil), c.RowPtr...),
		ColInd: append([]int32(nil), c.ColInd...),
		Val:    val,
	}
}

// Rebase returns a copy of c using index base b
func (c *CSR[T]) Rebase(b sparse.IndexBase) *CSR[T] {
	out := ConvertCSR[T](c)
	shift := int32(b) - int32(c.Base)
	for i := range out.RowPtr {
		out.RowPtr[i] += shift
	}
	for i := range out.ColInd {
		out.ColInd[i] += shift
	}
	out.Base = b
	return out
}

// GenerateCSRMatrix loads filename when it is set, otherwise draws a random
// m x n matrix with RandomNnz(m, n) entries. The result uses index base b.
func GenerateCSRMatrix[T sparse.Real](rng *RNG, filename string, m, n int, b sparse.IndexBase) (*CSR[T], error) {
	if filename != "" {
		loaded, err := ReadMatrixFile(filename)
		if err != nil {
			return nil, err
		}
		return ConvertCSR[T](loaded).Rebase(b), nil
	}
	coo, err := GenerateRandomCOO[T](rng, m, n, RandomNnz(m, n), b)
	if err != nil {
		return nil, err
	}
	return COOToCSR(coo)
}
