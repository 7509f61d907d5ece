package builder

import (
	"fmt"
	"strings"
)

// KernelParameter is the structured form of one entry in a kernel signature
type KernelParameter struct {
	Type     string
	Name     string
	IsConst  bool
	Category string // "scalar", "array"
}

// SignatureInfo returns structured information about kernel parameters
func SignatureInfo(params []ParamSpec) []KernelParameter {
	info := make([]KernelParameter, 0, len(params))
	for _, p := range params {
		kp := KernelParameter{
			Name:    p.Name,
			IsConst: p.IsConst(),
		}
		if !p.Direction.IsArray() {
			kp.Type = p.TypeName()
			kp.Category = "scalar"
		} else {
			kp.Type = p.TypeName() + "*"
			kp.Category = "array"
		}
		info = append(info, kp)
	}
	return info
}

// GenerateSignature generates the parameter list for a kernel function
func GenerateSignature(params []ParamSpec) string {
	entries := make([]string, 0, len(params))
	for _, kp := range SignatureInfo(params) {
		constStr := ""
		if kp.IsConst {
			constStr = "const "
		}
		entries = append(entries, fmt.Sprintf("%s%s %s", constStr, kp.Type, kp.Name))
	}
	return strings.Join(entries, ",\n\t")
}

// GenerateKernelDeclaration generates a complete kernel function declaration
func GenerateKernelDeclaration(kernelName string, params []ParamSpec) string {
	return fmt.Sprintf("@kernel void %s(\n\t%s\n)",
		kernelName,
		GenerateSignature(params))
}
