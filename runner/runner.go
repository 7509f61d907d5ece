package runner

import (
	"fmt"

	"github.com/notargets/SparseKernel/runner/builder"
	"github.com/notargets/gocca"
	"github.com/zeebo/xxh3"
)

// Runner orchestrates kernel compilation and execution for one precision
type Runner struct {
	*builder.Builder
	Device            *gocca.OCCADevice
	Kernels           map[string]*gocca.OCCAKernel
	PooledMemory      map[string]*gocca.OCCAMemory
	kernelDefinitions map[string]*KernelDefinition
	pooledBytes       map[string]int64
	sourceHashes      map[uint64]string // xxh3 of full source -> kernel name
}

// innerLimits caps BlockSize per backend
// TODO: Query the OpenCL limit with CL_DEVICE_MAX_WORK_GROUP_SIZE
var innerLimits = map[string]int{
	"CUDA":   1024,
	"OpenCL": 1024,
}

// MaxBlockSize returns the @inner limit of a backend, 0 when unbounded
func MaxBlockSize(mode string) int {
	return innerLimits[mode]
}

// NewRunner creates a new Runner instance
func NewRunner(device *gocca.OCCADevice, cfg builder.Config) (kr *Runner) {
	if device == nil {
		panic("Runner requires a non-nil Device")
	}
	bld := builder.NewBuilder(cfg)
	if limit := MaxBlockSize(device.Mode()); limit > 0 && bld.BlockSize > limit {
		panic(fmt.Sprintf("%s @inner limit exceeded: BlockSize=%d but %s is limited to %d threads per @inner loop",
			device.Mode(), bld.BlockSize, device.Mode(), limit))
	}
	bld.GeneratePreamble()

	kr = &Runner{
		Builder:           bld,
		Device:            device,
		Kernels:           make(map[string]*gocca.OCCAKernel),
		PooledMemory:      make(map[string]*gocca.OCCAMemory),
		kernelDefinitions: make(map[string]*KernelDefinition),
		pooledBytes:       make(map[string]int64),
		sourceHashes:      make(map[uint64]string),
	}
	return
}

// RunKernel executes a defined and compiled kernel with positional arguments.
// The argument count must match the kernel definition.
func (kr *Runner) RunKernel(kernelName string, args ...interface{}) error {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not defined - use DefineKernel first", kernelName)
	}

	kernel, exists := kr.Kernels[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not compiled", kernelName)
	}

	if len(args) != len(def.Parameters) {
		return fmt.Errorf("kernel %s expects %d arguments, got %d",
			kernelName, len(def.Parameters), len(args))
	}
	for i, arg := range args {
		if mem, ok := arg.(*gocca.OCCAMemory); ok && mem == nil {
			return fmt.Errorf("kernel %s argument %s is a nil device buffer",
				kernelName, def.Parameters[i].Name)
		}
	}

	if err := kernel.RunWithArgs(args...); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}

	kr.Device.Finish()
	return nil
}

// BuildKernel compiles and registers a kernel with the program. Identical
// sources (including the preamble) are compiled once.
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	if kr.KernelPreamble == "" {
		kr.GeneratePreamble()
	}

	// Combine preamble with kernel source
	fullSource := kr.KernelPreamble + "\n" + kernelSource
	hash := xxh3.HashString(fullSource)

	if existing, ok := kr.sourceHashes[hash]; ok {
		if kernel, ok := kr.Kernels[existing]; ok {
			kr.Kernels[kernelName] = kernel
			return kernel, nil
		}
	}

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}

	if kernel != nil {
		kr.Kernels[kernelName] = kernel
		kr.sourceHashes[hash] = kernelName
		return kernel, nil
	}

	return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
}

// HasKernel reports whether a kernel is both defined and compiled
func (kr *Runner) HasKernel(kernelName string) bool {
	_, defined := kr.kernelDefinitions[kernelName]
	_, built := kr.Kernels[kernelName]
	return defined && built
}

// Workspace returns a pooled device buffer of at least the requested size.
// The buffer is grow-only; contents are not preserved across growth.
func (kr *Runner) Workspace(name string, bytes int64) *gocca.OCCAMemory {
	if bytes <= 0 {
		bytes = 1
	}
	if mem, ok := kr.PooledMemory[name]; ok {
		if kr.pooledBytes[name] >= bytes {
			return mem
		}
		mem.Free()
	}
	mem := kr.Device.Malloc(bytes, nil, nil)
	kr.PooledMemory[name] = mem
	kr.pooledBytes[name] = bytes
	return mem
}

// Free releases all resources
func (kr *Runner) Free() {
	// Kernels can be registered under several names when sources match
	freed := make(map[*gocca.OCCAKernel]bool)
	for _, kernel := range kr.Kernels {
		if !freed[kernel] {
			kernel.Free()
			freed[kernel] = true
		}
	}
	kr.Kernels = make(map[string]*gocca.OCCAKernel)
	kr.sourceHashes = make(map[uint64]string)

	for _, mem := range kr.PooledMemory {
		mem.Free()
	}
	kr.PooledMemory = make(map[string]*gocca.OCCAMemory)
	kr.pooledBytes = make(map[string]int64)
}
