package builder

import (
	"fmt"
	"strings"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

// Size returns the size in bytes of a single value
func (dt DataType) Size() int64 {
	switch dt {
	case Float32, INT32:
		return 4
	case Float64, INT64:
		return 8
	default:
		return 8
	}
}

// CType returns the C type name used in generated kernel code
func (dt DataType) CType() string {
	switch dt {
	case Float32:
		return "float"
	case Float64:
		return "double"
	case INT32:
		return "int"
	case INT64:
		return "long"
	default:
		return "double"
	}
}

// IsReal reports whether values of this type map onto real_t
func (dt DataType) IsReal() bool {
	return dt == Float32 || dt == Float64
}

func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case INT32:
		return "INT32"
	case INT64:
		return "INT64"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// DefaultBlockSize is the @inner loop extent used when Config leaves it unset
const DefaultBlockSize = 256

// Config holds configuration for creating a Builder
type Config struct {
	FloatType DataType
	IntType   DataType
	BlockSize int
}

// Builder generates the shared preamble for every kernel of one precision
type Builder struct {
	// Type configuration
	FloatType DataType
	IntType   DataType

	// Threads per @outer iteration
	BlockSize int

	// Generated code
	KernelPreamble string
}

// NewBuilder creates a new Builder instance
func NewBuilder(cfg Config) *Builder {
	floatType := cfg.FloatType
	if floatType == 0 {
		floatType = Float64
	}
	if !floatType.IsReal() {
		panic(fmt.Sprintf("FloatType must be Float32 or Float64, got %v", floatType))
	}
	intType := cfg.IntType
	if intType == 0 {
		intType = INT32
	}
	if intType.IsReal() {
		panic(fmt.Sprintf("IntType must be INT32 or INT64, got %v", intType))
	}
	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Builder{
		FloatType: floatType,
		IntType:   intType,
		BlockSize: blockSize,
	}
}

// NumBlocks returns the number of @outer iterations needed to cover n items
func (kb *Builder) NumBlocks(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)/kb.BlockSize + 1
}

// GeneratePreamble generates the kernel preamble with types and constants
func (kb *Builder) GeneratePreamble() string {
	var sb strings.Builder

	floatSuffix := ""
	if kb.FloatType == Float32 {
		floatSuffix = "f"
	}

	sb.WriteString(fmt.Sprintf("typedef %s real_t;\n", kb.FloatType.CType()))
	sb.WriteString(fmt.Sprintf("typedef %s int_t;\n", kb.IntType.CType()))
	sb.WriteString(fmt.Sprintf("#define REAL_ZERO 0.0%s\n", floatSuffix))
	sb.WriteString(fmt.Sprintf("#define REAL_ONE 1.0%s\n", floatSuffix))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("#define BLOCK_SIZE %d\n", kb.BlockSize))
	sb.WriteString("\n")

	kb.KernelPreamble = sb.String()
	return kb.KernelPreamble
}

// GetIntSize returns the size of the integer type in bytes
func (kb *Builder) GetIntSize() int {
	return int(kb.IntType.Size())
}
