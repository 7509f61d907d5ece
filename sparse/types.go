package sparse

import "fmt"

// IndexBase selects 0- or 1-based indexing for matrix and vector indices
type IndexBase int

const (
	IndexBaseZero IndexBase = 0
	IndexBaseOne  IndexBase = 1
)

func (b IndexBase) valid() bool {
	return b == IndexBaseZero || b == IndexBaseOne
}

func (b IndexBase) String() string {
	switch b {
	case IndexBaseZero:
		return "zero"
	case IndexBaseOne:
		return "one"
	default:
		return fmt.Sprintf("IndexBase(%d)", int(b))
	}
}

// HybPartition selects how the ELL width of a HYB matrix is chosen
type HybPartition int

const (
	// HybPartitionAuto uses the average number of nonzeros per row
	HybPartitionAuto HybPartition = iota
	// HybPartitionUser uses the caller supplied width
	HybPartitionUser
	// HybPartitionMax uses the longest row, leaving the COO part empty
	HybPartitionMax
)

func (p HybPartition) valid() bool {
	return p >= HybPartitionAuto && p <= HybPartitionMax
}

func (p HybPartition) String() string {
	switch p {
	case HybPartitionAuto:
		return "auto"
	case HybPartitionUser:
		return "user"
	case HybPartitionMax:
		return "max"
	default:
		return fmt.Sprintf("HybPartition(%d)", int(p))
	}
}

// ParseHybPartition accepts "auto", "user" or "max"
func ParseHybPartition(s string) (HybPartition, error) {
	switch s {
	case "auto", "AUTO":
		return HybPartitionAuto, nil
	case "user", "USER":
		return HybPartitionUser, nil
	case "max", "MAX":
		return HybPartitionMax, nil
	}
	return 0, fmt.Errorf("unknown HYB partition %q", s)
}

// PointerMode selects where scalar coefficients are read from
type PointerMode int

const (
	PointerModeHost PointerMode = iota
	PointerModeDevice
)

func (m PointerMode) String() string {
	switch m {
	case PointerModeHost:
		return "host"
	case PointerModeDevice:
		return "device"
	default:
		return fmt.Sprintf("PointerMode(%d)", int(m))
	}
}

// MatrixType describes the structure of a matrix; only general is supported
type MatrixType int

const (
	MatrixTypeGeneral MatrixType = iota
)

// MatDescr carries matrix metadata passed alongside device arrays
type MatDescr struct {
	indexBase  IndexBase
	matrixType MatrixType
}

// NewMatDescr returns a general, zero-based descriptor
func NewMatDescr() *MatDescr {
	return &MatDescr{
		indexBase:  IndexBaseZero,
		matrixType: MatrixTypeGeneral,
	}
}

// SetIndexBase sets the index base of the described matrix
func (d *MatDescr) SetIndexBase(base IndexBase) error {
	if d == nil {
		return newError("SetMatIndexBase", StatusInvalidPointer, "descriptor is nil")
	}
	if !base.valid() {
		return newError("SetMatIndexBase", StatusInvalidValue, "invalid index base %d", int(base))
	}
	d.indexBase = base
	return nil
}

// IndexBase returns the index base of the described matrix
func (d *MatDescr) IndexBase() IndexBase {
	return d.indexBase
}

// Type returns the matrix type
func (d *MatDescr) Type() MatrixType {
	return d.matrixType
}
