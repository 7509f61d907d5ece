package sparse

import (
	"math"
	"testing"

	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotiIdentity(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device)
	require.NoError(t, err)
	defer h.Destroy()

	xInd := []int32{1, 3}
	xVal := []float64{2, 4}
	y := []float64{0, 0, 0, 0}

	dInd := runner.MallocCopy(device, xInd)
	dVal := runner.MallocCopy(device, xVal)
	dY := runner.MallocCopy(device, y)
	defer runner.FreeAll(dInd, dVal, dY)

	c, s := 1.0, 0.0
	require.NoError(t, Roti(h, 2, dVal, dInd, dY, HostScalar(&c), HostScalar(&s), IndexBaseZero))

	gotX, err := runner.DeviceToSlice[float64](dVal, 2)
	require.NoError(t, err)
	gotY, err := runner.DeviceToSlice[float64](dY, 4)
	require.NoError(t, err)
	assert.Equal(t, xVal, gotX)
	assert.Equal(t, y, gotY)
}

func TestRotiPointerModes(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device)
	require.NoError(t, err)
	defer h.Destroy()

	// One-based indices into a length 6 dense vector
	xInd := []int32{1, 4, 6}
	xVal := []float32{1, 2, 3}
	y := []float32{5, 6, 7, 8, 9, 10}
	c, s := float32(0.6), float32(0.8)

	run := func(mode PointerMode) ([]float32, []float32) {
		require.NoError(t, h.SetPointerMode(mode))
		dInd := runner.MallocCopy(device, xInd)
		dVal := runner.MallocCopy(device, xVal)
		dY := runner.MallocCopy(device, y)
		dc := runner.MallocCopy(device, []float32{c})
		ds := runner.MallocCopy(device, []float32{s})
		defer runner.FreeAll(dInd, dVal, dY, dc, ds)

		cs, ss := HostScalar(&c), HostScalar(&s)
		if mode == PointerModeDevice {
			cs, ss = DeviceScalar[float32](dc), DeviceScalar[float32](ds)
		}
		require.NoError(t, Roti(h, len(xInd), dVal, dInd, dY, cs, ss, IndexBaseOne))

		gotX, err := runner.DeviceToSlice[float32](dVal, len(xVal))
		require.NoError(t, err)
		gotY, err := runner.DeviceToSlice[float32](dY, len(y))
		require.NoError(t, err)
		return gotX, gotY
	}

	hostX, hostY := run(PointerModeHost)
	devX, devY := run(PointerModeDevice)
	assert.Equal(t, hostX, devX)
	assert.Equal(t, hostY, devY)

	for i, idx := range xInd {
		j := idx - 1
		wantX := c*xVal[i] + s*y[j]
		wantY := c*y[j] - s*xVal[i]
		assert.InDelta(t, float64(wantX), float64(hostX[i]), 1e-5)
		assert.InDelta(t, float64(wantY), float64(hostY[j]), 1e-5)
	}
	// Untouched entries
	assert.Equal(t, y[1], hostY[1])
	assert.Equal(t, y[2], hostY[2])
	assert.Equal(t, y[4], hostY[4])
}

func TestRotiInverse(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device)
	require.NoError(t, err)
	defer h.Destroy()

	xInd := []int32{0, 2, 5, 7}
	xVal := []float64{1, -2, 3.5, 4}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	dInd := runner.MallocCopy(device, xInd)
	dVal := runner.MallocCopy(device, xVal)
	dY := runner.MallocCopy(device, y)
	defer runner.FreeAll(dInd, dVal, dY)

	theta := 0.3
	c, s := math.Cos(theta), math.Sin(theta)
	ns := -s
	require.NoError(t, Roti(h, 4, dVal, dInd, dY, HostScalar(&c), HostScalar(&s), IndexBaseZero))
	require.NoError(t, Roti(h, 4, dVal, dInd, dY, HostScalar(&c), HostScalar(&ns), IndexBaseZero))

	gotX, err := runner.DeviceToSlice[float64](dVal, 4)
	require.NoError(t, err)
	gotY, err := runner.DeviceToSlice[float64](dY, 8)
	require.NoError(t, err)
	assert.InDeltaSlice(t, xVal, gotX, 1e-12)
	assert.InDeltaSlice(t, y, gotY, 1e-12)
}

func TestRotiBadArgs(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device)
	require.NoError(t, err)
	defer h.Destroy()

	dInd := runner.MallocCopy(device, []int32{0})
	dVal := runner.MallocCopy(device, []float64{1})
	dY := runner.MallocCopy(device, []float64{1})
	defer runner.FreeAll(dInd, dVal, dY)
	cv, sv := 1.0, 0.0
	c, s := HostScalar(&cv), HostScalar(&sv)

	assert.Equal(t, StatusInvalidHandle, StatusOf(Roti(nil, 1, dVal, dInd, dY, c, s, IndexBaseZero)))
	assert.Equal(t, StatusInvalidValue, StatusOf(Roti(h, -1, dVal, dInd, dY, c, s, IndexBaseZero)))
	assert.Equal(t, StatusSuccess, StatusOf(Roti[float64](h, 0, nil, nil, nil, nil, nil, IndexBaseZero)))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, nil, dInd, dY, c, s, IndexBaseZero)))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, dVal, nil, dY, c, s, IndexBaseZero)))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, dVal, dInd, nil, c, s, IndexBaseZero)))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, dVal, dInd, dY, nil, s, IndexBaseZero)))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, dVal, dInd, dY, c, nil, IndexBaseZero)))
	assert.Equal(t, StatusInvalidValue, StatusOf(Roti(h, 1, dVal, dInd, dY, c, s, IndexBase(3))))

	// A host scalar is not visible in device pointer mode
	require.NoError(t, h.SetPointerMode(PointerModeDevice))
	assert.Equal(t, StatusInvalidPointer, StatusOf(Roti(h, 1, dVal, dInd, dY, c, s, IndexBaseZero)))
}
