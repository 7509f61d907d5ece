package harness

import (
	"fmt"

	bsparse "github.com/james-bowman/sparse"
	"github.com/notargets/SparseKernel/sparse"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// HybWidth returns the ELL width a conversion of csr must produce, or
// ok=false when the library must reject the request with InvalidValue.
// For HybPartitionUser, EllWidthDefault selects nnz/m.
func HybWidth[T sparse.Real](csr *CSR[T], part sparse.HybPartition, userWidth int) (width int, ok bool) {
	m, nnz := csr.M, csr.Nnz()
	limit := sparse.MaxEllWidth(m, nnz)
	switch part {
	case sparse.HybPartitionAuto:
		return sparse.AutoEllWidth(m, nnz), true
	case sparse.HybPartitionUser:
		if userWidth == EllWidthDefault {
			userWidth = nnz / m
		}
		if userWidth < 0 || userWidth > limit {
			return userWidth, false
		}
		return userWidth, true
	case sparse.HybPartitionMax:
		longest := csr.MaxRowNnz()
		return longest, longest <= limit
	}
	return 0, false
}

// HostCsr2Hyb computes the HYB layout of csr for a given ELL width. The
// first width entries of each row fill the column-major ELL block, padded
// with column -1 and value 0; the rest go to the COO part in row order.
func HostCsr2Hyb[T sparse.Real](csr *CSR[T], width int) *sparse.HostHyb[T] {
	m := csr.M
	base := int32(csr.Base)

	cooNnz := 0
	for i := 0; i < m; i++ {
		if extra := csr.RowNnz(i) - width; extra > 0 {
			cooNnz += extra
		}
	}
	ellNnz := width * m
	hyb := &sparse.HostHyb[T]{
		M:         m,
		N:         csr.N,
		EllWidth:  width,
		EllNnz:    ellNnz,
		CooNnz:    cooNnz,
		EllColInd: make([]int32, ellNnz),
		EllVal:    make([]T, ellNnz),
		CooRowInd: make([]int32, cooNnz),
		CooColInd: make([]int32, cooNnz),
		CooVal:    make([]T, cooNnz),
	}

	k := 0
	for i := 0; i < m; i++ {
		p := 0
		for j := csr.RowPtr[i] - base; j < csr.RowPtr[i+1]-base; j++ {
			if p < width {
				idx := p*m + i
				hyb.EllColInd[idx] = csr.ColInd[j]
				hyb.EllVal[idx] = csr.Val[j]
				p++
				continue
			}
			hyb.CooRowInd[k] = int32(i) + base
			hyb.CooColInd[k] = csr.ColInd[j]
			hyb.CooVal[k] = csr.Val[j]
			k++
		}
		for ; p < width; p++ {
			idx := p*m + i
			hyb.EllColInd[idx] = -1
			hyb.EllVal[idx] = 0
		}
	}
	return hyb
}

// HostRoti applies the rotation (c, s) to xVal and y in place at the
// indices xInd.
func HostRoti[T sparse.Real](xVal []T, xInd []int32, y []T, c, s T, base sparse.IndexBase) error {
	if len(xVal) != len(xInd) {
		return fmt.Errorf("%d values for %d indices", len(xVal), len(xInd))
	}
	gathered := make([]T, len(xInd))
	for i, ind := range xInd {
		idx := int(ind) - int(base)
		if idx < 0 || idx >= len(y) {
			return fmt.Errorf("index %d at %d outside dense vector of %d", ind, i, len(y))
		}
		gathered[i] = y[idx]
	}

	switch xs := any(xVal).(type) {
	case []float64:
		ys := any(gathered).([]float64)
		blas64.Rot(
			blas64.Vector{N: len(xs), Data: xs, Inc: 1},
			blas64.Vector{N: len(ys), Data: ys, Inc: 1},
			float64(c), float64(s))
	case []float32:
		ys := any(gathered).([]float32)
		blas32.Rot(
			blas32.Vector{N: len(xs), Data: xs, Inc: 1},
			blas32.Vector{N: len(ys), Data: ys, Inc: 1},
			float32(c), float32(s))
	}

	for i, ind := range xInd {
		y[int(ind)-int(base)] = gathered[i]
	}
	return nil
}

// CSRToDense expands csr into a dense matrix
func CSRToDense[T sparse.Real](csr *CSR[T]) *mat.Dense {
	if csr.M == 0 || csr.N == 0 {
		return &mat.Dense{}
	}
	base := int(csr.Base)
	ia := make([]int, len(csr.RowPtr))
	for i, v := range csr.RowPtr {
		ia[i] = int(v) - base
	}
	ja := make([]int, len(csr.ColInd))
	data := make([]float64, len(csr.Val))
	for k := range csr.ColInd {
		ja[k] = int(csr.ColInd[k]) - base
		data[k] = float64(csr.Val[k])
	}
	return bsparse.NewCSR(csr.M, csr.N, ia, ja, data).ToDense()
}

// HybToDense expands a HYB layout into a dense matrix, skipping ELL
// padding.
func HybToDense[T sparse.Real](hyb *sparse.HostHyb[T], base sparse.IndexBase) *mat.Dense {
	if hyb.M == 0 || hyb.N == 0 {
		return &mat.Dense{}
	}
	b := int(base)
	var rows, cols []int
	var data []float64
	for p := 0; p < hyb.EllWidth; p++ {
		for i := 0; i < hyb.M; i++ {
			idx := p*hyb.M + i
			if hyb.EllColInd[idx] < 0 {
				continue
			}
			rows = append(rows, i)
			cols = append(cols, int(hyb.EllColInd[idx])-b)
			data = append(data, float64(hyb.EllVal[idx]))
		}
	}
	for k := 0; k < hyb.CooNnz; k++ {
		rows = append(rows, int(hyb.CooRowInd[k])-b)
		cols = append(cols, int(hyb.CooColInd[k])-b)
		data = append(data, float64(hyb.CooVal[k]))
	}
	return bsparse.NewCOO(hyb.M, hyb.N, rows, cols, data).ToDense()
}
