package builder

import (
	"fmt"
)

// Direction is how a kernel argument is used by the kernel body
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
	DirectionInOut
	DirectionTemp
	DirectionScalar
)

var directionNames = [...]string{"input", "output", "inout", "temp", "scalar"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// IsArray reports whether the argument is passed as a device buffer
func (d Direction) IsArray() bool {
	return d != DirectionScalar
}

// ParamBuilder is the fluent form of a ParamSpec
type ParamBuilder struct {
	Spec ParamSpec
}

// ParamSpec describes one kernel argument
type ParamSpec struct {
	Name      string
	Direction Direction

	// DataType selects the C type; real types are emitted as real_t and
	// integer types as int_t unless Exact is set.
	DataType DataType
	Exact    bool

	// Size is informational for arrays, zero means "runtime sized"
	Size int64
}

func param(name string, dir Direction) *ParamBuilder {
	return &ParamBuilder{Spec: ParamSpec{Name: name, Direction: dir}}
}

// Input is a buffer the kernel only reads, emitted const
func Input(name string) *ParamBuilder { return param(name, DirectionInput) }

// Output is a buffer the kernel only writes
func Output(name string) *ParamBuilder { return param(name, DirectionOutput) }

// InOut is a buffer updated in place
func InOut(name string) *ParamBuilder { return param(name, DirectionInOut) }

// Scalar is passed by value
func Scalar(name string) *ParamBuilder { return param(name, DirectionScalar) }

// Temp is device-only scratch space
func Temp(name string) *ParamBuilder { return param(name, DirectionTemp) }

func (p *ParamBuilder) Type(dataType DataType) *ParamBuilder {
	p.Spec.DataType = dataType
	return p
}

// ExactType emits the concrete C type (e.g. int) instead of int_t/real_t
func (p *ParamBuilder) ExactType() *ParamBuilder {
	p.Spec.Exact = true
	return p
}

func (p *ParamBuilder) Size(elements int) *ParamBuilder {
	p.Spec.Size = int64(elements)
	return p
}

// Validate checks that the argument can be rendered into a signature
func (p *ParamSpec) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("parameter name cannot be empty")
	case p.DataType == 0:
		return fmt.Errorf("%s %s needs type", p.Direction, p.Name)
	case p.Size < 0:
		return fmt.Errorf("%s %s has negative size %d", p.Direction, p.Name, p.Size)
	case p.Size > 0 && !p.Direction.IsArray():
		return fmt.Errorf("scalar %s cannot have a size", p.Name)
	}
	return nil
}

// IsConst is true for arguments the kernel must not write
func (p *ParamSpec) IsConst() bool {
	return p.Direction == DirectionInput || p.Direction == DirectionScalar
}

// TypeName returns the kernel-side type name of the parameter
func (p *ParamSpec) TypeName() string {
	if p.Exact {
		return p.DataType.CType()
	}
	if p.DataType.IsReal() {
		return "real_t"
	}
	return "int_t"
}
