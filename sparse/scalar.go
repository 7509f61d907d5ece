package sparse

import "github.com/notargets/gocca"

// Scalar is a coefficient passed either by host reference or as a one
// element device buffer. The handle's pointer mode decides which is read.
type Scalar[T Real] struct {
	Host   *T
	Device *gocca.OCCAMemory
}

// HostScalar wraps a host value for PointerModeHost
func HostScalar[T Real](v *T) *Scalar[T] {
	return &Scalar[T]{Host: v}
}

// DeviceScalar wraps a device buffer for PointerModeDevice
func DeviceScalar[T Real](mem *gocca.OCCAMemory) *Scalar[T] {
	return &Scalar[T]{Device: mem}
}

// present reports whether the side selected by mode is set
func (s *Scalar[T]) present(mode PointerMode) bool {
	if s == nil {
		return false
	}
	if mode == PointerModeDevice {
		return s.Device != nil
	}
	return s.Host != nil
}
