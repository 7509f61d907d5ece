package sparse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusInvalidValue, StatusOf(newError("op", StatusInvalidValue, "bad")))
	assert.Equal(t, StatusInternalError, StatusOf(errors.New("foreign")))
	assert.Equal(t, StatusInvalidHandle, StatusOf(StatusInvalidHandle))

	wrapped := fmt.Errorf("outer: %w", newError("op", StatusInvalidPointer, "nil"))
	assert.Equal(t, StatusInvalidPointer, StatusOf(wrapped))
}

func TestErrorIsStatus(t *testing.T) {
	err := newError("Csr2Hyb", StatusInvalidValue, "width %d", 7)
	assert.True(t, errors.Is(err, StatusInvalidValue))
	assert.False(t, errors.Is(err, StatusInvalidPointer))
	assert.Contains(t, err.Error(), "Csr2Hyb")
	assert.Contains(t, err.Error(), "width 7")

	cause := errors.New("kernel failed")
	err = wrapError("Roti", StatusInternalError, cause, "rotation")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, StatusInternalError))
	assert.Contains(t, err.Error(), "caused by")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "InvalidHandle", StatusInvalidHandle.String())
	assert.Equal(t, "Status(99)", Status(99).String())
}

func TestMatDescr(t *testing.T) {
	d := NewMatDescr()
	assert.Equal(t, IndexBaseZero, d.IndexBase())
	assert.Equal(t, MatrixTypeGeneral, d.Type())

	assert.NoError(t, d.SetIndexBase(IndexBaseOne))
	assert.Equal(t, IndexBaseOne, d.IndexBase())

	assert.Equal(t, StatusInvalidValue, StatusOf(d.SetIndexBase(IndexBase(2))))
	assert.Equal(t, IndexBaseOne, d.IndexBase())

	var nilDescr *MatDescr
	assert.Equal(t, StatusInvalidPointer, StatusOf(nilDescr.SetIndexBase(IndexBaseZero)))
}

func TestParseHybPartition(t *testing.T) {
	for in, want := range map[string]HybPartition{
		"auto": HybPartitionAuto,
		"USER": HybPartitionUser,
		"max":  HybPartitionMax,
	} {
		got, err := ParseHybPartition(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseHybPartition("ell")
	assert.Error(t, err)
}

func TestEllWidthLimits(t *testing.T) {
	// 4x4 with 6 nonzeros
	assert.Equal(t, 2, AutoEllWidth(4, 6))
	assert.Equal(t, 3, MaxEllWidth(4, 6))

	// Empty matrices still admit width 1
	assert.Equal(t, 1, AutoEllWidth(5, 0))
	assert.Equal(t, 1, MaxEllWidth(5, 0))

	assert.Equal(t, 0, AutoEllWidth(0, 10))
	assert.Equal(t, 0, MaxEllWidth(0, 10))
}

func TestHandleNil(t *testing.T) {
	var h *Handle
	assert.Equal(t, StatusInvalidHandle, StatusOf(h.SetPointerMode(PointerModeDevice)))
	_, err := h.GetPointerMode()
	assert.Equal(t, StatusInvalidHandle, StatusOf(err))
	assert.Equal(t, StatusInvalidHandle, StatusOf(h.Destroy()))

	_, err = Create(nil)
	assert.Equal(t, StatusNotInitialized, StatusOf(err))
}

func TestScalarPresent(t *testing.T) {
	v := 0.5
	hs := HostScalar(&v)
	assert.True(t, hs.present(PointerModeHost))
	assert.False(t, hs.present(PointerModeDevice))

	var missing *Scalar[float64]
	assert.False(t, missing.present(PointerModeHost))
}
