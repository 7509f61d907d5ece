package sparse

import (
	"fmt"

	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/runner/builder"
	"github.com/notargets/gocca"
)

// HybMat is a matrix in hybrid ELL + COO format. The layout fields are
// exported so callers can inspect a conversion result directly.
//
// The ELL block holds EllWidth entries per row in column-major order, so
// slot p of row i is at index p*M + i. Unused slots have column -1 and
// value 0. Entries beyond EllWidth go to the COO arrays in row order.
type HybMat struct {
	M, N      int
	Partition HybPartition

	EllWidth int
	EllNnz   int
	CooNnz   int

	EllColInd *gocca.OCCAMemory // int32, EllNnz
	EllVal    *gocca.OCCAMemory // T, EllNnz
	CooRowInd *gocca.OCCAMemory // int32, CooNnz
	CooColInd *gocca.OCCAMemory // int32, CooNnz
	CooVal    *gocca.OCCAMemory // T, CooNnz

	dataType builder.DataType
}

// NewHybMat returns an empty HYB matrix
func NewHybMat() *HybMat {
	return &HybMat{}
}

// Destroy releases the device arrays of hyb
func (hyb *HybMat) Destroy() error {
	if hyb == nil {
		return newError("DestroyHybMat", StatusInvalidPointer, "hyb is nil")
	}
	hyb.release()
	return nil
}

func (hyb *HybMat) release() {
	runner.FreeAll(hyb.EllColInd, hyb.EllVal, hyb.CooRowInd, hyb.CooColInd, hyb.CooVal)
	hyb.EllColInd = nil
	hyb.EllVal = nil
	hyb.CooRowInd = nil
	hyb.CooColInd = nil
	hyb.CooVal = nil
	hyb.EllWidth = 0
	hyb.EllNnz = 0
	hyb.CooNnz = 0
}

// HostHyb is a host copy of a HybMat
type HostHyb[T Real] struct {
	M, N      int
	EllWidth  int
	EllNnz    int
	CooNnz    int
	EllColInd []int32
	EllVal    []T
	CooRowInd []int32
	CooColInd []int32
	CooVal    []T
}

// CopyHybToHost copies the layout and every device array of hyb to the host
func CopyHybToHost[T Real](hyb *HybMat) (*HostHyb[T], error) {
	if hyb == nil {
		return nil, newError("CopyHybToHost", StatusInvalidPointer, "hyb is nil")
	}
	if hyb.dataType != 0 && hyb.dataType != runner.DataTypeOf[T]() {
		return nil, newError("CopyHybToHost", StatusInvalidValue,
			"hyb holds %v values, requested %v", hyb.dataType, runner.DataTypeOf[T]())
	}
	out := &HostHyb[T]{
		M:         hyb.M,
		N:         hyb.N,
		EllWidth:  hyb.EllWidth,
		EllNnz:    hyb.EllNnz,
		CooNnz:    hyb.CooNnz,
		EllColInd: make([]int32, hyb.EllNnz),
		EllVal:    make([]T, hyb.EllNnz),
		CooRowInd: make([]int32, hyb.CooNnz),
		CooColInd: make([]int32, hyb.CooNnz),
		CooVal:    make([]T, hyb.CooNnz),
	}
	copies := []struct {
		name string
		fn   func() error
	}{
		{"ell_col_ind", func() error { return runner.CopyToHost(out.EllColInd, hyb.EllColInd) }},
		{"ell_val", func() error { return runner.CopyToHost(out.EllVal, hyb.EllVal) }},
		{"coo_row_ind", func() error { return runner.CopyToHost(out.CooRowInd, hyb.CooRowInd) }},
		{"coo_col_ind", func() error { return runner.CopyToHost(out.CooColInd, hyb.CooColInd) }},
		{"coo_val", func() error { return runner.CopyToHost(out.CooVal, hyb.CooVal) }},
	}
	for _, c := range copies {
		if err := c.fn(); err != nil {
			return nil, wrapError("CopyHybToHost", StatusInternalError, err, "copying %s", c.name)
		}
	}
	return out, nil
}

func (h *HostHyb[T]) String() string {
	return fmt.Sprintf("hyb %dx%d ell_width=%d ell_nnz=%d coo_nnz=%d",
		h.M, h.N, h.EllWidth, h.EllNnz, h.CooNnz)
}
