package runner

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
)

// ============================================================================
// Typed helpers for moving data between host slices and device buffers
// ============================================================================

// SizeOf returns the size in bytes of one T
func SizeOf[T Numeric]() int64 {
	var sample T
	return int64(unsafe.Sizeof(sample))
}

// Malloc allocates an uninitialized device buffer for n values of T.
// A non-positive n yields a nil buffer, mirroring a null device pointer.
func Malloc[T Numeric](device *gocca.OCCADevice, n int) *gocca.OCCAMemory {
	if n <= 0 {
		return nil
	}
	return device.Malloc(int64(n)*SizeOf[T](), nil, nil)
}

// MallocCopy allocates a device buffer and initializes it from host
func MallocCopy[T Numeric](device *gocca.OCCADevice, host []T) *gocca.OCCAMemory {
	if len(host) == 0 {
		return nil
	}
	return device.Malloc(int64(len(host))*SizeOf[T](), unsafe.Pointer(&host[0]), nil)
}

// CopyToDevice copies len(host) values into the start of mem
func CopyToDevice[T Numeric](mem *gocca.OCCAMemory, host []T) error {
	if len(host) == 0 {
		return nil
	}
	if mem == nil {
		return fmt.Errorf("copy of %d values to nil device buffer", len(host))
	}
	mem.CopyFrom(unsafe.Pointer(&host[0]), int64(len(host))*SizeOf[T]())
	return nil
}

// CopyToHost fills host from the start of mem
func CopyToHost[T Numeric](host []T, mem *gocca.OCCAMemory) error {
	if len(host) == 0 {
		return nil
	}
	if mem == nil {
		return fmt.Errorf("copy of %d values from nil device buffer", len(host))
	}
	mem.CopyTo(unsafe.Pointer(&host[0]), int64(len(host))*SizeOf[T]())
	return nil
}

// CopyToHostAt copies len(host) values starting at element offset
func CopyToHostAt[T Numeric](host []T, mem *gocca.OCCAMemory, offset int) error {
	if len(host) == 0 {
		return nil
	}
	if mem == nil {
		return fmt.Errorf("copy of %d values from nil device buffer", len(host))
	}
	if offset < 0 {
		return fmt.Errorf("negative element offset %d", offset)
	}
	size := SizeOf[T]()
	mem.CopyToWithOffset(unsafe.Pointer(&host[0]), int64(len(host))*size, int64(offset)*size)
	return nil
}

// ReadElement returns the value at element index of mem
func ReadElement[T Numeric](mem *gocca.OCCAMemory, index int) (T, error) {
	value := make([]T, 1)
	if err := CopyToHostAt(value, mem, index); err != nil {
		return value[0], err
	}
	return value[0], nil
}

// DeviceToSlice allocates a host slice of n values and copies mem into it
func DeviceToSlice[T Numeric](mem *gocca.OCCAMemory, n int) ([]T, error) {
	host := make([]T, n)
	if err := CopyToHost(host, mem); err != nil {
		return nil, err
	}
	return host, nil
}

// FreeAll frees every non-nil buffer
func FreeAll(mems ...*gocca.OCCAMemory) {
	for _, mem := range mems {
		if mem != nil {
			mem.Free()
		}
	}
}
