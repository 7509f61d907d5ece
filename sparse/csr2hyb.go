package sparse

import (
	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/gocca"
	"github.com/sirupsen/logrus"
)

// MaxEllWidth returns the largest ELL width accepted for an m row matrix
// with nnz nonzeros.
func MaxEllWidth(m, nnz int) int {
	if m <= 0 {
		return 0
	}
	return (2*nnz-1)/m + 1
}

// AutoEllWidth returns the ELL width chosen by HybPartitionAuto
func AutoEllWidth(m, nnz int) int {
	if m <= 0 {
		return 0
	}
	return (nnz-1)/m + 1
}

// Csr2Hyb converts an m x n CSR matrix on the device into hyb.
//
// csrVal holds T values; csrRowPtr (m+1) and csrColInd (nnz) hold int32
// indices in the base given by descr. userEllWidth is only read for
// HybPartitionUser. On error hyb is left as it was.
func Csr2Hyb[T Real](h *Handle, m, n int, descr *MatDescr,
	csrVal, csrRowPtr, csrColInd *gocca.OCCAMemory,
	hyb *HybMat, userEllWidth int, partition HybPartition) error {
	const op = "Csr2Hyb"

	if h == nil {
		return newError(op, StatusInvalidHandle, "handle is nil")
	}
	if descr == nil {
		return newError(op, StatusInvalidPointer, "descriptor is nil")
	}
	if hyb == nil {
		return newError(op, StatusInvalidPointer, "hyb is nil")
	}
	if m < 0 || n < 0 {
		return newError(op, StatusInvalidValue, "invalid size %dx%d", m, n)
	}
	if !partition.valid() {
		return newError(op, StatusInvalidValue, "invalid partition %v", partition)
	}
	if !descr.IndexBase().valid() {
		return newError(op, StatusInvalidValue, "invalid index base %v", descr.IndexBase())
	}

	if m == 0 || n == 0 {
		hyb.release()
		hyb.M, hyb.N, hyb.Partition = m, n, partition
		return nil
	}

	if csrVal == nil || csrRowPtr == nil || csrColInd == nil {
		return newError(op, StatusInvalidPointer, "csr array is nil")
	}

	r, err := runnerFor[T](h)
	if err != nil {
		return wrapError(op, StatusInternalError, err, "kernel setup")
	}

	base := int(descr.IndexBase())
	last, err := runner.ReadElement[int32](csrRowPtr, m)
	if err != nil {
		return wrapError(op, StatusInternalError, err, "reading row pointer")
	}
	nnz := int(last) - base
	if nnz < 0 {
		return newError(op, StatusInvalidValue, "row pointer gives nnz %d", nnz)
	}

	// Row lengths
	nblocks := int32(r.NumBlocks(m))
	rowNnzMem := r.Workspace("rowNnz", int64(m)*runner.SizeOf[int32]())
	if err := r.RunKernel(kernelCsrRowNnz, nblocks, int32(m), csrRowPtr, rowNnzMem); err != nil {
		return wrapError(op, StatusInternalError, err, "row lengths")
	}
	rowNnz := make([]int32, m)
	if err := runner.CopyToHost(rowNnz, rowNnzMem); err != nil {
		return wrapError(op, StatusInternalError, err, "row lengths")
	}

	maxRow := 0
	for _, c := range rowNnz {
		if int(c) > maxRow {
			maxRow = int(c)
		}
	}

	limit := MaxEllWidth(m, nnz)
	var width int
	switch partition {
	case HybPartitionAuto:
		width = AutoEllWidth(m, nnz)
	case HybPartitionUser:
		if userEllWidth < 0 || userEllWidth > limit {
			return newError(op, StatusInvalidValue,
				"ell width %d outside [0, %d]", userEllWidth, limit)
		}
		width = userEllWidth
	case HybPartitionMax:
		if maxRow > limit {
			return newError(op, StatusInvalidValue,
				"longest row %d exceeds ell width limit %d", maxRow, limit)
		}
		width = maxRow
	}

	// Exclusive scan of per-row overflow gives each row its COO offset
	cooRowPtr := make([]int32, m)
	cooNnz := 0
	for i, c := range rowNnz {
		cooRowPtr[i] = int32(cooNnz)
		if extra := int(c) - width; extra > 0 {
			cooNnz += extra
		}
	}
	ellNnz := width * m

	cooRowPtrMem := r.Workspace("cooRowPtr", int64(m)*runner.SizeOf[int32]())
	if err := runner.CopyToDevice(cooRowPtrMem, cooRowPtr); err != nil {
		return wrapError(op, StatusInternalError, err, "coo offsets")
	}

	hyb.release()
	hyb.M, hyb.N, hyb.Partition = m, n, partition
	hyb.EllWidth, hyb.EllNnz, hyb.CooNnz = width, ellNnz, cooNnz
	hyb.dataType = r.FloatType
	hyb.EllColInd = runner.Malloc[int32](h.device, ellNnz)
	hyb.EllVal = runner.Malloc[T](h.device, ellNnz)
	hyb.CooRowInd = runner.Malloc[int32](h.device, cooNnz)
	hyb.CooColInd = runner.Malloc[int32](h.device, cooNnz)
	hyb.CooVal = runner.Malloc[T](h.device, cooNnz)

	// Empty parts are never written; the kernel still needs a valid buffer
	dummy := r.Workspace("empty", 8)
	orDummy := func(mem *gocca.OCCAMemory) *gocca.OCCAMemory {
		if mem == nil {
			return dummy
		}
		return mem
	}

	if err := r.RunKernel(kernelCsr2HybFill,
		nblocks, int32(m), int32(base), int32(width),
		csrRowPtr, csrColInd, csrVal, cooRowPtrMem,
		orDummy(hyb.EllColInd), orDummy(hyb.EllVal),
		orDummy(hyb.CooRowInd), orDummy(hyb.CooColInd), orDummy(hyb.CooVal),
	); err != nil {
		hyb.release()
		return wrapError(op, StatusInternalError, err, "fill")
	}

	h.log.WithFields(logrus.Fields{
		"m":         m,
		"n":         n,
		"nnz":       nnz,
		"partition": partition.String(),
		"ell_width": width,
		"coo_nnz":   cooNnz,
	}).Trace("csr2hyb")
	return nil
}
