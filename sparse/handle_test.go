package sparse

import (
	"testing"

	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_PointerMode(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device)
	require.NoError(t, err)
	defer h.Destroy()

	assert.Same(t, device, h.Device())
	mode, err := h.GetPointerMode()
	require.NoError(t, err)
	assert.Equal(t, PointerModeHost, mode, "host mode is the default")

	require.NoError(t, h.SetPointerMode(PointerModeDevice))
	mode, _ = h.GetPointerMode()
	assert.Equal(t, PointerModeDevice, mode)

	assert.Equal(t, StatusInvalidValue, StatusOf(h.SetPointerMode(PointerMode(7))))
	mode, _ = h.GetPointerMode()
	assert.Equal(t, PointerModeDevice, mode, "a rejected mode leaves the handle unchanged")
}

func TestHandle_BlockSize(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	h, err := Create(device, WithBlockSize(64))
	require.NoError(t, err)
	r, err := runnerFor[float32](h)
	require.NoError(t, err)
	assert.Equal(t, 64, r.BlockSize)

	again, err := runnerFor[float32](h)
	require.NoError(t, err)
	assert.Same(t, r, again, "kernels build once per precision")
	require.NoError(t, h.Destroy())

	if limit := runner.MaxBlockSize(device.Mode()); limit > 0 {
		_, err = Create(device, WithBlockSize(limit+1))
		assert.Equal(t, StatusInvalidValue, StatusOf(err))
	}
}
