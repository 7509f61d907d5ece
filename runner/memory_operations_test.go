package runner

import (
	"testing"

	"github.com/notargets/SparseKernel/runner/builder"
	"github.com/notargets/SparseKernel/utils"
	"github.com/notargets/gocca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nilMemory() *gocca.OCCAMemory {
	return nil
}

func TestMemory_RoundTrip(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	t.Run("Float64", func(t *testing.T) {
		host := []float64{1.5, -2, 3.25}
		mem := MallocCopy(device, host)
		defer mem.Free()
		got, err := DeviceToSlice[float64](mem, len(host))
		require.NoError(t, err)
		assert.Equal(t, host, got)
	})

	t.Run("Int32", func(t *testing.T) {
		host := []int32{7, 8, 9, 10}
		mem := Malloc[int32](device, len(host))
		defer mem.Free()
		require.NoError(t, CopyToDevice(mem, host))

		v, err := ReadElement[int32](mem, 2)
		require.NoError(t, err)
		assert.Equal(t, int32(9), v)

		tail := make([]int32, 2)
		require.NoError(t, CopyToHostAt(tail, mem, 2))
		assert.Equal(t, []int32{9, 10}, tail)
	})
}

func TestMemory_Empty(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()

	assert.Nil(t, Malloc[float32](device, 0))
	assert.Nil(t, MallocCopy[float32](device, nil))
	assert.NoError(t, CopyToHost([]float32{}, nil))
	assert.NoError(t, CopyToDevice[float32](nil, []float32{}))

	assert.Error(t, CopyToHost([]float32{1}, nil))
	assert.Error(t, CopyToDevice(nilMemory(), []float32{1}))
	_, err := ReadElement[float32](nil, 0)
	assert.Error(t, err)

	mem := Malloc[float32](device, 4)
	defer mem.Free()
	assert.Error(t, CopyToHostAt([]float32{0}, mem, -1))

	FreeAll(nil, nil)
}

func TestTypes(t *testing.T) {
	assert.Equal(t, builder.Float32, DataTypeOf[float32]())
	assert.Equal(t, builder.Float64, DataTypeOf[float64]())
	assert.Equal(t, builder.INT32, DataTypeOf[int32]())
	assert.Equal(t, builder.INT64, DataTypeOf[int64]())
	assert.Equal(t, int64(4), SizeOf[float32]())
	assert.Equal(t, int64(8), SizeOfType(builder.INT64))
	assert.Equal(t, builder.DataType(0), GetDataTypeFromSample("x"))
}
