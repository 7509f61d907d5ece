package harness

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/sparse"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// TestingRotiBadArg calls Roti with a negative nnz, with each pointer nil
// in turn and with a nil handle, requiring the matching status each time.
func TestingRotiBadArg[T sparse.Real](t require.TestingT, env *Env) {
	const nnz, safeSize = 100, 100
	c, s := T(3.7), T(1.2)
	base := sparse.IndexBaseZero

	h, err := sparse.Create(env.Device)
	require.NoError(t, err)
	defer h.Destroy()

	xVal := runner.Malloc[T](env.Device, safeSize)
	xInd := runner.Malloc[int32](env.Device, safeSize)
	y := runner.Malloc[T](env.Device, safeSize)
	defer runner.FreeAll(xVal, xInd, y)

	hc, hs := sparse.HostScalar(&c), sparse.HostScalar(&s)

	VerifyStatusInvalidValue(t,
		sparse.Roti(h, -1, xVal, xInd, y, hc, hs, base), "Error: nnz is invalid")
	VerifyStatusInvalidPointer(t,
		sparse.Roti(h, nnz, xVal, nil, y, hc, hs, base), "Error: x_ind is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Roti(h, nnz, nil, xInd, y, hc, hs, base), "Error: x_val is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Roti(h, nnz, xVal, xInd, nil, hc, hs, base), "Error: y is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Roti(h, nnz, xVal, xInd, y, nil, hs, base), "Error: c is nil")
	VerifyStatusInvalidPointer(t,
		sparse.Roti(h, nnz, xVal, xInd, y, hc, nil, base), "Error: s is nil")
	VerifyStatusInvalidHandle(t,
		sparse.Roti(nil, nnz, xVal, xInd, y, hc, hs, base))
}

// rotiInput is the deterministic host data of a rotation case
type rotiInput[T sparse.Real] struct {
	xInd []int32
	xVal []T
	y    []T
}

func newRotiInput[T sparse.Real](n, nnz int) (*rotiInput[T], error) {
	rng := NewRNG(Seed)
	xInd, err := InitIndex(rng, nnz, 1, n)
	if err != nil {
		return nil, err
	}
	return &rotiInput[T]{
		xInd: xInd,
		xVal: Init[T](rng, nnz),
		y:    Init[T](rng, n),
	}, nil
}

// TestingRoti rotates generated vectors once with coefficients from host
// memory and once from device memory. Both results must be identical and
// match HostRoti. Args.Alpha is c and Args.Beta is s.
func TestingRoti[T sparse.Real](t require.TestingT, env *Env, args Arguments) error {
	const op = "TestingRoti"
	log := env.logger(args)

	n, nnz := args.N, args.Nnz
	c, s := T(args.Alpha), T(args.Beta)
	base := args.IndexBase()

	h, err := sparse.Create(env.Device, sparse.WithLogger(log))
	if err != nil {
		return checkError("create handle", err)
	}
	defer h.Destroy()

	if nnz == 0 {
		return nil
	}
	in, err := newRotiInput[T](n, nnz)
	if err != nil {
		return internalError(op, err)
	}

	dxInd := upload(env.Device, in.xInd)
	dxVal1 := upload(env.Device, in.xVal)
	dxVal2 := upload(env.Device, in.xVal)
	dy1 := upload(env.Device, in.y)
	dy2 := upload(env.Device, in.y)
	dc := upload(env.Device, []T{c})
	ds := upload(env.Device, []T{s})
	defer runner.FreeAll(dxInd, dxVal1, dxVal2, dy1, dy2, dc, ds)

	if args.UnitCheck {
		if err := h.SetPointerMode(sparse.PointerModeHost); err != nil {
			return checkError("pointer mode", err)
		}
		if err := sparse.Roti(h, nnz, dxVal1, dxInd, dy1,
			sparse.HostScalar(&c), sparse.HostScalar(&s), base); err != nil {
			return checkError("roti host pointer mode", err)
		}
		if err := h.SetPointerMode(sparse.PointerModeDevice); err != nil {
			return checkError("pointer mode", err)
		}
		if err := sparse.Roti(h, nnz, dxVal2, dxInd, dy2,
			sparse.DeviceScalar[T](dc), sparse.DeviceScalar[T](ds), base); err != nil {
			return checkError("roti device pointer mode", err)
		}

		xVal1, err := runner.DeviceToSlice[T](dxVal1, nnz)
		if err != nil {
			return checkError("copy x", err)
		}
		xVal2, err := runner.DeviceToSlice[T](dxVal2, nnz)
		if err != nil {
			return checkError("copy x", err)
		}
		y1, err := runner.DeviceToSlice[T](dy1, n)
		if err != nil {
			return checkError("copy y", err)
		}
		y2, err := runner.DeviceToSlice[T](dy2, n)
		if err != nil {
			return checkError("copy y", err)
		}

		xGold := append([]T(nil), in.xVal...)
		yGold := append([]T(nil), in.y...)
		if err := HostRoti(xGold, in.xInd, yGold, c, s, base); err != nil {
			return internalError(op, err)
		}

		UnitCheckGeneral(t, "x_val host mode", xGold, xVal1)
		UnitCheckGeneral(t, "x_val device mode", xGold, xVal2)
		UnitCheckGeneral(t, "y host mode", yGold, y1)
		UnitCheckGeneral(t, "y device mode", yGold, y2)
		require.Equal(t, xVal1, xVal2, "pointer modes disagree on x_val")
		require.Equal(t, y1, y2, "pointer modes disagree on y")
	}

	if args.Timing {
		if err := h.SetPointerMode(sparse.PointerModeHost); err != nil {
			return checkError("pointer mode", err)
		}
		tm, err := Measure(args.Iters, func() error {
			return sparse.Roti(h, nnz, dxVal1, dxInd, dy1,
				sparse.HostScalar(&c), sparse.HostScalar(&s), base)
		})
		if err != nil {
			return checkError("roti timing", err)
		}
		if tm.Calls == 0 {
			return nil
		}
		gflop := RotiGflopCount(nnz)
		gbyte := RotiGbyteCount[T](nnz)
		log.WithFields(logrus.Fields{
			"nnz":    nnz,
			"moved":  humanize.Bytes(uint64(gbyte * 1e9)),
			"std_us": tm.StdUs,
		}).Info("roti timed")
		return DisplayTimingInfo(env.out(),
			"nnz", nnz,
			"GFlop/s", GpuGflops(tm.MeanUs, gflop),
			"GB/s", GpuGbyte(tm.MeanUs, gbyte),
			"msec", GpuTimeMsec(tm.MeanUs))
	}
	return nil
}

// TestingRotiInverse rotates by the angle atan2(Beta, Alpha) and back,
// requiring both vectors to return to their inputs.
func TestingRotiInverse[T sparse.Real](t require.TestingT, env *Env, args Arguments) error {
	n, nnz := args.N, args.Nnz
	base := args.IndexBase()

	// Normalize so that c*c + s*s = 1
	theta := math.Atan2(args.Beta, args.Alpha)
	c, s := T(math.Cos(theta)), T(math.Sin(theta))
	ns := -s

	h, err := sparse.Create(env.Device, sparse.WithLogger(env.logger(args)))
	if err != nil {
		return checkError("create handle", err)
	}
	defer h.Destroy()

	if nnz == 0 {
		return nil
	}
	in, err := newRotiInput[T](n, nnz)
	if err != nil {
		return internalError("TestingRotiInverse", err)
	}

	dxInd := upload(env.Device, in.xInd)
	dxVal := upload(env.Device, in.xVal)
	dy := upload(env.Device, in.y)
	defer runner.FreeAll(dxInd, dxVal, dy)

	if err := sparse.Roti(h, nnz, dxVal, dxInd, dy,
		sparse.HostScalar(&c), sparse.HostScalar(&s), base); err != nil {
		return checkError("roti forward", err)
	}
	if err := sparse.Roti(h, nnz, dxVal, dxInd, dy,
		sparse.HostScalar(&c), sparse.HostScalar(&ns), base); err != nil {
		return checkError("roti inverse", err)
	}

	xVal, err := runner.DeviceToSlice[T](dxVal, nnz)
	if err != nil {
		return checkError("copy x", err)
	}
	y, err := runner.DeviceToSlice[T](dy, n)
	if err != nil {
		return checkError("copy y", err)
	}

	// Round trip error grows with the magnitude of the inputs (at most 10)
	tol := 1e-12
	if runner.SizeOf[T]() == 4 {
		tol = 1e-5
	}
	for i := range xVal {
		require.InDelta(t, float64(in.xVal[i]), float64(xVal[i]), 10*tol, "x_val[%d]", i)
	}
	for i := range y {
		require.InDelta(t, float64(in.y[i]), float64(y[i]), 10*tol, "y[%d]", i)
	}
	return nil
}
