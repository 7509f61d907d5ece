package harness

import (
	"fmt"
	"math"

	"github.com/notargets/SparseKernel/sparse"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

// Numeric lists the element types compared by UnitCheckGeneral
type Numeric interface {
	~int32 | ~float32 | ~float64
}

const (
	// maxULP is the distance in units of last place tolerated for reals
	maxULP   = 4
	relTol32 = 1e-5
	relTol64 = 1e-12
)

// UnitCheckGeneral fails t at the first element where got differs from
// want. Integers must match exactly; reals within maxULP or a relative
// tolerance for the precision.
func UnitCheckGeneral[T Numeric](t require.TestingT, name string, want, got []T) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if len(got) != len(want) {
		require.Failf(t, "unit check failed",
			"%s: want %d elements, got %d", name, len(want), len(got))
		return
	}
	for i := range want {
		if !elementEqual(want[i], got[i]) {
			require.Failf(t, "unit check failed",
				"%s[%d]: want %v, got %v", name, i, want[i], got[i])
			return
		}
	}
}

// UnitCheckScalar compares a single reported size
func UnitCheckScalar(t require.TestingT, name string, want, got int) {
	require.Equal(t, want, got, "%s", name)
}

func elementEqual[T Numeric](want, got T) bool {
	switch w := any(want).(type) {
	case int32:
		return w == any(got).(int32)
	case float32:
		g := any(got).(float32)
		return w == g || ulpDiff32(w, g) <= maxULP ||
			scalar.EqualWithinRel(float64(w), float64(g), relTol32)
	case float64:
		g := any(got).(float64)
		return w == g || scalar.EqualWithinULP(w, g, maxULP) ||
			scalar.EqualWithinRel(w, g, relTol64)
	}
	return want == got
}

// ulpDiff32 is the number of representable float32 values between a and b
func ulpDiff32(a, b float32) uint32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return math.MaxUint32
	}
	ia, ib := orderedBits32(a), orderedBits32(b)
	if ia > ib {
		return uint32(ia - ib)
	}
	return uint32(ib - ia)
}

// orderedBits32 maps float32 bits onto a monotonic integer line
func orderedBits32(f float32) int64 {
	bits := int64(math.Float32bits(f))
	if bits&(1<<31) != 0 {
		return -(bits &^ (1 << 31))
	}
	return bits
}

// VerifyStatus requires err to carry status want
func VerifyStatus(t require.TestingT, want sparse.Status, err error, msg string) {
	require.Equal(t, want, sparse.StatusOf(err), "%s: %v", msg, err)
}

// VerifyStatusInvalidHandle requires an InvalidHandle status
func VerifyStatusInvalidHandle(t require.TestingT, err error) {
	VerifyStatus(t, sparse.StatusInvalidHandle, err, "Error: handle is nil")
}

// VerifyStatusInvalidPointer requires an InvalidPointer status
func VerifyStatusInvalidPointer(t require.TestingT, err error, msg string) {
	VerifyStatus(t, sparse.StatusInvalidPointer, err, msg)
}

// VerifyStatusInvalidValue requires an InvalidValue status
func VerifyStatusInvalidValue(t require.TestingT, err error, msg string) {
	VerifyStatus(t, sparse.StatusInvalidValue, err, msg)
}

// checkError turns an unexpected library failure into a procedure error
func checkError(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
