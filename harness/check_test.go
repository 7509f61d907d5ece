package harness

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/SparseKernel/sparse"
	"github.com/stretchr/testify/assert"
)

// recorder is a require.TestingT that remembers failures instead of
// stopping the test.
type recorder struct {
	errors []string
	failed bool
}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.failed = true
}

func TestUnitCheckGeneral(t *testing.T) {
	r := &recorder{}
	UnitCheckGeneral(r, "ints", []int32{1, 2, 3}, []int32{1, 2, 3})
	assert.False(t, r.failed)

	UnitCheckGeneral(r, "ints", []int32{1, 2, 3}, []int32{1, 2, 4})
	assert.True(t, r.failed)
	assert.Contains(t, r.errors[0], "ints[2]")

	r = &recorder{}
	next := math.Nextafter(1.0, 2.0)
	UnitCheckGeneral(r, "doubles", []float64{1, 0}, []float64{next, 0})
	assert.False(t, r.failed, "one ulp apart")

	UnitCheckGeneral(r, "doubles", []float64{1}, []float64{1.001})
	assert.True(t, r.failed)

	r = &recorder{}
	f := math.Nextafter32(3, 4)
	f = math.Nextafter32(f, 4)
	UnitCheckGeneral(r, "floats", []float32{3}, []float32{f})
	assert.False(t, r.failed, "two ulp apart")

	UnitCheckGeneral(r, "floats", []float32{3}, []float32{3.01})
	assert.True(t, r.failed)

	r = &recorder{}
	UnitCheckGeneral(r, "length", []float32{1, 2}, []float32{1})
	assert.True(t, r.failed)
}

func TestUlpDiff32(t *testing.T) {
	assert.Equal(t, uint32(0), ulpDiff32(1, 1))
	assert.Equal(t, uint32(1), ulpDiff32(1, math.Nextafter32(1, 2)))
	// Across zero
	assert.Equal(t, uint32(2), ulpDiff32(math.Nextafter32(0, -1), math.Nextafter32(0, 1)))
	assert.Equal(t, uint32(math.MaxUint32), ulpDiff32(float32(math.NaN()), 1))
}

func TestVerifyStatus(t *testing.T) {
	r := &recorder{}
	VerifyStatusInvalidValue(r, &sparse.Error{Op: "x", Status: sparse.StatusInvalidValue}, "value")
	VerifyStatusInvalidPointer(r, &sparse.Error{Op: "x", Status: sparse.StatusInvalidPointer}, "pointer")
	VerifyStatusInvalidHandle(r, &sparse.Error{Op: "x", Status: sparse.StatusInvalidHandle})
	assert.False(t, r.failed)

	VerifyStatusInvalidValue(r, nil, "success is not invalid")
	assert.True(t, r.failed)
}
