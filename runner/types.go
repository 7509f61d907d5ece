package runner

import (
	"github.com/notargets/SparseKernel/runner/builder"
)

// Numeric lists the host element types that can be mirrored on a device
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// Real lists the floating point element types
type Real interface {
	~float32 | ~float64
}

func SizeOfType(dt builder.DataType) int64 {
	return dt.Size()
}

// GetDataTypeFromSample maps a Go value to its kernel DataType, 0 when the
// value has no device counterpart.
func GetDataTypeFromSample(sample any) builder.DataType {
	switch sample.(type) {
	case float32:
		return builder.Float32
	case float64:
		return builder.Float64
	case int32:
		return builder.INT32
	case int64:
		return builder.INT64
	}
	return 0
}

// DataTypeOf is GetDataTypeFromSample for a type parameter. Named element
// types (type Idx int32) map to 0.
func DataTypeOf[T Numeric]() builder.DataType {
	var zero T
	return GetDataTypeFromSample(zero)
}
