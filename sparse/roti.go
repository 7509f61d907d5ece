package sparse

import (
	"github.com/notargets/gocca"
)

// Roti applies the plane rotation (c, s) to the sparse vector x and the
// dense vector y at the indices of x:
//
//	x[i]   = c*x[i] + s*y[idx]
//	y[idx] = c*y[idx] - s*x[i]
//
// with idx = xInd[i] - base and x[i] the value before the update. xVal and
// y hold T values, xInd holds nnz int32 indices. c and s are read from the
// side selected by the handle's pointer mode.
func Roti[T Real](h *Handle, nnz int, xVal, xInd, y *gocca.OCCAMemory,
	c, s *Scalar[T], base IndexBase) error {
	const op = "Roti"

	if h == nil {
		return newError(op, StatusInvalidHandle, "handle is nil")
	}
	if nnz < 0 {
		return newError(op, StatusInvalidValue, "invalid nnz %d", nnz)
	}
	if nnz == 0 {
		return nil
	}
	if xVal == nil || xInd == nil || y == nil {
		return newError(op, StatusInvalidPointer, "vector is nil")
	}
	if !c.present(h.pointerMode) || !s.present(h.pointerMode) {
		return newError(op, StatusInvalidPointer, "coefficient missing for %v pointer mode", h.pointerMode)
	}
	if !base.valid() {
		return newError(op, StatusInvalidValue, "invalid index base %v", base)
	}

	r, err := runnerFor[T](h)
	if err != nil {
		return wrapError(op, StatusInternalError, err, "kernel setup")
	}

	nblocks := int32(r.NumBlocks(nnz))
	if h.pointerMode == PointerModeDevice {
		err = r.RunKernel(kernelRotiDevice, nblocks, int32(nnz), int32(base),
			c.Device, s.Device, xVal, xInd, y)
	} else {
		err = r.RunKernel(kernelRotiHost, nblocks, int32(nnz), int32(base),
			realArg(*c.Host), realArg(*s.Host), xVal, xInd, y)
	}
	if err != nil {
		return wrapError(op, StatusInternalError, err, "rotation")
	}
	return nil
}
