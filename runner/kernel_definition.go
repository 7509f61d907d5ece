package runner

import (
	"fmt"

	"github.com/notargets/SparseKernel/runner/builder"
)

// KernelDefinition holds all information about a defined kernel
type KernelDefinition struct {
	Name       string
	Parameters []builder.ParamSpec
	Signature  string
}

// DefineKernel defines a kernel with its ordered parameters. The generated
// signature is what GetKernelSignature returns for use in kernel source.
func (kr *Runner) DefineKernel(kernelName string, params ...*builder.ParamBuilder) error {
	if kernelName == "" {
		return fmt.Errorf("kernel name cannot be empty")
	}

	paramSpecs := make([]builder.ParamSpec, len(params))
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		paramSpecs[i] = p.Spec
		if err := paramSpecs[i].Validate(); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		if seen[p.Spec.Name] {
			return fmt.Errorf("parameter %d: duplicate name %s", i, p.Spec.Name)
		}
		seen[p.Spec.Name] = true
	}

	kr.kernelDefinitions[kernelName] = &KernelDefinition{
		Name:       kernelName,
		Parameters: paramSpecs,
		Signature:  builder.GenerateSignature(paramSpecs),
	}
	return nil
}

// GetKernelSignature returns the generated signature for a defined kernel
func (kr *Runner) GetKernelSignature(kernelName string) (string, error) {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return "", fmt.Errorf("kernel %s not defined", kernelName)
	}
	return def.Signature, nil
}

// GetKernelDefinition returns the stored definition for a kernel
func (kr *Runner) GetKernelDefinition(kernelName string) (*KernelDefinition, bool) {
	def, exists := kr.kernelDefinitions[kernelName]
	return def, exists
}

// DefineAndBuild defines a kernel, substitutes its signature into the
// source template (a single %s verb) and compiles it.
func (kr *Runner) DefineAndBuild(kernelName, sourceTemplate string,
	params ...*builder.ParamBuilder) error {
	if err := kr.DefineKernel(kernelName, params...); err != nil {
		return fmt.Errorf("failed to define kernel %s: %w", kernelName, err)
	}
	signature, err := kr.GetKernelSignature(kernelName)
	if err != nil {
		return err
	}
	if _, err := kr.BuildKernel(fmt.Sprintf(sourceTemplate, signature), kernelName); err != nil {
		return err
	}
	return nil
}
