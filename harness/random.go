package harness

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/notargets/SparseKernel/sparse"
	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the deterministic source behind every generated input
type RNG struct {
	*rand.Rand
	normal distuv.Normal
}

// NewRNG returns a generator seeded with seed
func NewRNG(seed uint64) *RNG {
	src := rand.NewPCG(seed, seed)
	return &RNG{
		Rand:   rand.New(src),
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// value draws an integer in [1, 10]
func (r *RNG) value() int {
	return r.IntN(10) + 1
}

// InitIndex draws n distinct indices from [start, end) and returns them
// sorted.
func InitIndex(rng *RNG, n, start, end int) ([]int32, error) {
	if n < 0 || end-start < n {
		return nil, fmt.Errorf("cannot draw %d distinct indices from [%d, %d)", n, start, end)
	}
	used := make([]bool, end-start)
	out := make([]int32, 0, n)
	for len(out) < n {
		v := rng.IntN(end - start)
		if used[v] {
			continue
		}
		used[v] = true
		out = append(out, int32(start+v))
	}
	slices.Sort(out)
	return out, nil
}

// Init returns n values drawn from [1, 10]
func Init[T sparse.Real](rng *RNG, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(rng.value())
	}
	return out
}

// GenerateRandomCOO draws an m x n pattern with nnz entries. Rows are
// uniform; columns within a row are distinct and normally distributed
// around the diagonal with a spread equal to the row length. Entries are
// sorted by row, then column.
func GenerateRandomCOO[T sparse.Real](rng *RNG, m, n, nnz int, base sparse.IndexBase) (*COO[T], error) {
	if m < 0 || n < 0 || nnz < 0 {
		return nil, fmt.Errorf("invalid random matrix %dx%d nnz %d", m, n, nnz)
	}
	if nnz > m*n {
		return nil, fmt.Errorf("nnz %d exceeds %dx%d", nnz, m, n)
	}
	coo := &COO[T]{
		M:      m,
		N:      n,
		Base:   base,
		RowInd: make([]int32, nnz),
		ColInd: make([]int32, nnz),
		Val:    make([]T, nnz),
	}
	if nnz == 0 {
		return coo, nil
	}

	// Row counts, no row may exceed n entries
	counts := make([]int, m)
	for placed := 0; placed < nnz; {
		row := rng.IntN(m)
		if counts[row] == n {
			continue
		}
		counts[row]++
		placed++
	}

	used := make([]bool, n)
	k := 0
	for row, count := range counts {
		begin := k
		if 2*count > n {
			// Dense row: a random subset is cheaper than rejection
			for _, col := range rng.Perm(n)[:count] {
				coo.ColInd[k] = int32(col)
				k++
			}
		} else {
			for k-begin < count {
				col := int(float64(count) * rng.normal.Rand())
				if m <= n {
					col += row
				}
				if col < 0 || col > n-1 || used[col] {
					continue
				}
				used[col] = true
				coo.ColInd[k] = int32(col)
				k++
			}
			for _, col := range coo.ColInd[begin:k] {
				used[col] = false
			}
		}
		slices.Sort(coo.ColInd[begin:k])
		for j := begin; j < k; j++ {
			coo.RowInd[j] = int32(row)
		}
	}

	if base == sparse.IndexBaseOne {
		for i := range coo.RowInd {
			coo.RowInd[i]++
			coo.ColInd[i]++
		}
	}
	for i := range coo.Val {
		coo.Val[i] = T(rng.value())
	}
	return coo, nil
}

// RandomNnz returns the number of nonzeros generated for an m x n matrix
// when no file is given: about 2% of the entries, or two per row for
// large matrices, and at least one.
func RandomNnz(m, n int) int {
	if m <= 0 || n <= 0 {
		return 0
	}
	scale := 0.02
	if m > 1000 || n > 1000 {
		scale = 2.0 / float64(max(m, n))
	}
	nnz := int(float64(m) * scale * float64(n))
	return min(max(nnz, 1), m*n)
}
