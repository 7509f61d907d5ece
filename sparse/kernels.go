package sparse

import (
	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/runner/builder"
)

// Kernel names registered on every precision runner
const (
	kernelCsrRowNnz   = "csrRowNnz"
	kernelCsr2HybFill = "csr2hybFill"
	kernelRotiHost    = "rotiHost"
	kernelRotiDevice  = "rotiDevice"
)

// Every kernel maps global thread (b, t) to item b*BLOCK_SIZE + t and
// guards against the tail of the last block.

const csrRowNnzSource = `
@kernel void csrRowNnz(
	%s
) {
	for (int b = 0; b < nblocks; ++b; @outer) {
		for (int t = 0; t < BLOCK_SIZE; ++t; @inner) {
			const int_t i = b * BLOCK_SIZE + t;
			if (i < m) {
				rowNnz[i] = csrRowPtr[i + 1] - csrRowPtr[i];
			}
		}
	}
}`

// The ELL block is column-major: slot p of row i lives at p*m + i.
const csr2hybFillSource = `
@kernel void csr2hybFill(
	%s
) {
	for (int b = 0; b < nblocks; ++b; @outer) {
		for (int t = 0; t < BLOCK_SIZE; ++t; @inner) {
			const int_t i = b * BLOCK_SIZE + t;
			if (i < m) {
				const int_t rowBegin = csrRowPtr[i] - base;
				const int_t rowEnd = csrRowPtr[i + 1] - base;
				int_t p = 0;
				int_t cooIdx = cooRowPtr[i];
				for (int_t j = rowBegin; j < rowEnd; ++j) {
					if (p < ellWidth) {
						const int_t idx = p * m + i;
						ellColInd[idx] = csrColInd[j];
						ellVal[idx] = csrVal[j];
						++p;
					} else {
						cooRowInd[cooIdx] = i + base;
						cooColInd[cooIdx] = csrColInd[j];
						cooVal[cooIdx] = csrVal[j];
						++cooIdx;
					}
				}
				for (; p < ellWidth; ++p) {
					const int_t idx = p * m + i;
					ellColInd[idx] = -1;
					ellVal[idx] = REAL_ZERO;
				}
			}
		}
	}
}`

const rotiHostSource = `
@kernel void rotiHost(
	%s
) {
	for (int b = 0; b < nblocks; ++b; @outer) {
		for (int t = 0; t < BLOCK_SIZE; ++t; @inner) {
			const int_t i = b * BLOCK_SIZE + t;
			if (i < nnz) {
				const int_t idx = xInd[i] - base;
				const real_t xv = xVal[i];
				const real_t yv = y[idx];
				xVal[i] = c * xv + s * yv;
				y[idx] = c * yv - s * xv;
			}
		}
	}
}`

const rotiDeviceSource = `
@kernel void rotiDevice(
	%s
) {
	for (int b = 0; b < nblocks; ++b; @outer) {
		for (int t = 0; t < BLOCK_SIZE; ++t; @inner) {
			const int_t i = b * BLOCK_SIZE + t;
			if (i < nnz) {
				const real_t cv = c[0];
				const real_t sv = s[0];
				const int_t idx = xInd[i] - base;
				const real_t xv = xVal[i];
				const real_t yv = y[idx];
				xVal[i] = cv * xv + sv * yv;
				y[idx] = cv * yv - sv * xv;
			}
		}
	}
}`

// buildKernels defines and compiles the full kernel set on r
func buildKernels(r *runner.Runner) error {
	realType := r.FloatType
	idx := builder.INT32

	if err := r.DefineAndBuild(kernelCsrRowNnz, csrRowNnzSource,
		builder.Scalar("nblocks").Type(idx).ExactType(),
		builder.Scalar("m").Type(idx),
		builder.Input("csrRowPtr").Type(idx),
		builder.Output("rowNnz").Type(idx),
	); err != nil {
		return err
	}

	if err := r.DefineAndBuild(kernelCsr2HybFill, csr2hybFillSource,
		builder.Scalar("nblocks").Type(idx).ExactType(),
		builder.Scalar("m").Type(idx),
		builder.Scalar("base").Type(idx),
		builder.Scalar("ellWidth").Type(idx),
		builder.Input("csrRowPtr").Type(idx),
		builder.Input("csrColInd").Type(idx),
		builder.Input("csrVal").Type(realType),
		builder.Input("cooRowPtr").Type(idx),
		builder.Output("ellColInd").Type(idx),
		builder.Output("ellVal").Type(realType),
		builder.Output("cooRowInd").Type(idx),
		builder.Output("cooColInd").Type(idx),
		builder.Output("cooVal").Type(realType),
	); err != nil {
		return err
	}

	if err := r.DefineAndBuild(kernelRotiHost, rotiHostSource,
		builder.Scalar("nblocks").Type(idx).ExactType(),
		builder.Scalar("nnz").Type(idx),
		builder.Scalar("base").Type(idx),
		builder.Scalar("c").Type(realType),
		builder.Scalar("s").Type(realType),
		builder.InOut("xVal").Type(realType),
		builder.Input("xInd").Type(idx),
		builder.InOut("y").Type(realType),
	); err != nil {
		return err
	}

	return r.DefineAndBuild(kernelRotiDevice, rotiDeviceSource,
		builder.Scalar("nblocks").Type(idx).ExactType(),
		builder.Scalar("nnz").Type(idx),
		builder.Scalar("base").Type(idx),
		builder.Input("c").Type(realType),
		builder.Input("s").Type(realType),
		builder.InOut("xVal").Type(realType),
		builder.Input("xInd").Type(idx),
		builder.InOut("y").Type(realType),
	)
}
