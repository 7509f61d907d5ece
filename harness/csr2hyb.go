package harness

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/sparse"
	"github.com/notargets/gocca"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// upload mirrors host on the device. Empty slices still get a one element
// buffer so that only deliberate nil arguments reach the library as nil.
func upload[T runner.Numeric](device *gocca.OCCADevice, host []T) *gocca.OCCAMemory {
	if len(host) == 0 {
		return runner.Malloc[T](device, 1)
	}
	return runner.MallocCopy(device, host)
}

func internalError(op string, err error) error {
	return &sparse.Error{
		Op:      op,
		Status:  sparse.StatusInternalError,
		Message: "host input unavailable",
		Err:     err,
	}
}

// TestingCsr2HybBadArg calls Csr2Hyb with each required pointer nil in
// turn and with a nil handle, requiring the matching status each time.
func TestingCsr2HybBadArg[T sparse.Real](t require.TestingT, env *Env) {
	const m, n, safeSize = 100, 100, 100

	h, err := sparse.Create(env.Device)
	require.NoError(t, err)
	defer h.Destroy()

	descr := sparse.NewMatDescr()
	hyb := sparse.NewHybMat()
	defer hyb.Destroy()

	rowPtr := runner.Malloc[int32](env.Device, safeSize)
	colInd := runner.Malloc[int32](env.Device, safeSize)
	val := runner.Malloc[T](env.Device, safeSize)
	defer runner.FreeAll(rowPtr, colInd, val)

	auto := sparse.HybPartitionAuto
	VerifyStatusInvalidPointer(t,
		sparse.Csr2Hyb[T](h, m, n, descr, val, nil, colInd, hyb, 0, auto),
		"Error: csr_row_ptr is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Csr2Hyb[T](h, m, n, descr, val, rowPtr, nil, hyb, 0, auto),
		"Error: csr_col_ind is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Csr2Hyb[T](h, m, n, descr, nil, rowPtr, colInd, hyb, 0, auto),
		"Error: csr_val is nil")
	VerifyStatusInvalidHandle(t,
		sparse.Csr2Hyb[T](nil, m, n, descr, val, rowPtr, colInd, hyb, 0, auto))
}

// TestingCsr2Hyb converts a generated or loaded CSR matrix and checks the
// result against HostCsr2Hyb. Widths the library must reject are checked
// for InvalidValue and end the case successfully. Unexpected library
// failures are returned.
func TestingCsr2Hyb[T sparse.Real](t require.TestingT, env *Env, args Arguments) error {
	const op = "TestingCsr2Hyb"
	log := env.logger(args)

	part, err := args.Partition()
	if err != nil {
		return err
	}
	base := args.IndexBase()

	h, err := sparse.Create(env.Device, sparse.WithLogger(log))
	if err != nil {
		return checkError("create handle", err)
	}
	defer h.Destroy()

	descr := sparse.NewMatDescr()
	if err := descr.SetIndexBase(base); err != nil {
		return checkError("set index base", err)
	}
	hyb := sparse.NewHybMat()
	defer hyb.Destroy()

	csr, err := GenerateCSRMatrix[T](NewRNG(Seed), args.Filename, args.M, args.N, base)
	if err != nil {
		log.WithError(err).WithField("file", args.Filename).Error("cannot read matrix")
		return internalError(op, err)
	}
	m, n, nnz := csr.M, csr.N, csr.Nnz()
	if m == 0 || n == 0 {
		return nil
	}
	log = log.WithFields(logrus.Fields{
		"m":           m,
		"n":           n,
		"nnz":         nnz,
		"partition":   part.String(),
		"fingerprint": fmt.Sprintf("%016x", csr.Fingerprint()),
	})
	log.Debug("input ready")

	dRowPtr := upload(env.Device, csr.RowPtr)
	dColInd := upload(env.Device, csr.ColInd)
	dVal := upload(env.Device, csr.Val)
	defer runner.FreeAll(dRowPtr, dColInd, dVal)

	userWidth := args.EllWidth
	if part == sparse.HybPartitionUser && userWidth == EllWidthDefault {
		userWidth = nnz / m
	}
	convert := func() error {
		return sparse.Csr2Hyb[T](h, m, n, descr, dVal, dRowPtr, dColInd, hyb, userWidth, part)
	}

	width, ok := HybWidth(csr, part, userWidth)
	if !ok {
		VerifyStatusInvalidValue(t, convert(),
			fmt.Sprintf("Error: ell width %d outside [0, %d]", width, sparse.MaxEllWidth(m, nnz)))
		return nil
	}
	want := HostCsr2Hyb(csr, width)

	if args.UnitCheck {
		if err := convert(); err != nil {
			return checkError("csr2hyb", err)
		}
		UnitCheckScalar(t, "m", m, hyb.M)
		UnitCheckScalar(t, "n", n, hyb.N)
		UnitCheckScalar(t, "ell_width", want.EllWidth, hyb.EllWidth)
		UnitCheckScalar(t, "ell_nnz", want.EllNnz, hyb.EllNnz)
		UnitCheckScalar(t, "coo_nnz", want.CooNnz, hyb.CooNnz)

		got, err := sparse.CopyHybToHost[T](hyb)
		if err != nil {
			return checkError("copy hyb", err)
		}
		UnitCheckGeneral(t, "ell_col_ind", want.EllColInd, got.EllColInd)
		UnitCheckGeneral(t, "ell_val", want.EllVal, got.EllVal)
		UnitCheckGeneral(t, "coo_row_ind", want.CooRowInd, got.CooRowInd)
		UnitCheckGeneral(t, "coo_col_ind", want.CooColInd, got.CooColInd)
		UnitCheckGeneral(t, "coo_val", want.CooVal, got.CooVal)

		require.True(t, mat.Equal(CSRToDense(csr), HybToDense(got, base)),
			"hyb does not represent the input matrix")
	}

	if args.Timing {
		tm, err := Measure(args.Iters, convert)
		if err != nil {
			return checkError("csr2hyb timing", err)
		}
		if tm.Calls == 0 {
			return nil
		}
		gbyte := Csr2HybGbyteCount[T](m, nnz, want.EllNnz, want.CooNnz)
		log.WithFields(logrus.Fields{
			"moved":  humanize.Bytes(uint64(gbyte * 1e9)),
			"std_us": tm.StdUs,
			"min_us": tm.MinUs,
		}).Info("csr2hyb timed")
		return DisplayTimingInfo(env.out(),
			"M", m,
			"N", n,
			"ell_nnz", want.EllNnz,
			"coo_nnz", want.CooNnz,
			"GB/s", GpuGbyte(tm.MeanUs, gbyte),
			"msec", GpuTimeMsec(tm.MeanUs))
	}
	return nil
}
