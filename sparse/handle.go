package sparse

import (
	"fmt"

	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/runner/builder"
	"github.com/notargets/gocca"
	"github.com/sirupsen/logrus"
)

// Real lists the value types supported by the library routines
type Real interface {
	float32 | float64
}

// Handle is a library session bound to one device. Kernels are compiled
// per precision on first use and cached for the life of the handle.
type Handle struct {
	device      *gocca.OCCADevice
	pointerMode PointerMode
	blockSize   int
	runners     map[builder.DataType]*runner.Runner
	log         *logrus.Entry
}

// HandleOption customizes a Handle at creation
type HandleOption func(*Handle)

// WithBlockSize sets the @inner extent used by all kernels
func WithBlockSize(n int) HandleOption {
	return func(h *Handle) {
		h.blockSize = n
	}
}

// WithLogger routes library logging through entry
func WithLogger(entry *logrus.Entry) HandleOption {
	return func(h *Handle) {
		h.log = entry
	}
}

// Create opens a session on device
func Create(device *gocca.OCCADevice, opts ...HandleOption) (*Handle, error) {
	if device == nil {
		return nil, newError("Create", StatusNotInitialized, "device is nil")
	}
	h := &Handle{
		device:      device,
		pointerMode: PointerModeHost,
		blockSize:   builder.DefaultBlockSize,
		runners:     make(map[builder.DataType]*runner.Runner),
		log:         logrus.WithField("component", "sparse"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.blockSize <= 0 {
		h.blockSize = builder.DefaultBlockSize
	}
	if limit := runner.MaxBlockSize(device.Mode()); limit > 0 && h.blockSize > limit {
		return nil, newError("Create", StatusInvalidValue,
			"block size %d exceeds the %s limit of %d", h.blockSize, device.Mode(), limit)
	}
	h.log.WithField("mode", device.Mode()).Debug("handle created")
	return h, nil
}

// Destroy releases every kernel and workspace owned by the handle
func (h *Handle) Destroy() error {
	if h == nil {
		return newError("Destroy", StatusInvalidHandle, "handle is nil")
	}
	for dt, r := range h.runners {
		r.Free()
		delete(h.runners, dt)
	}
	return nil
}

// Device returns the device the handle was created on
func (h *Handle) Device() *gocca.OCCADevice {
	return h.device
}

// SetPointerMode selects host or device delivery of scalar coefficients
func (h *Handle) SetPointerMode(mode PointerMode) error {
	if h == nil {
		return newError("SetPointerMode", StatusInvalidHandle, "handle is nil")
	}
	if mode != PointerModeHost && mode != PointerModeDevice {
		return newError("SetPointerMode", StatusInvalidValue, "invalid pointer mode %d", int(mode))
	}
	h.pointerMode = mode
	return nil
}

// GetPointerMode returns the active pointer mode
func (h *Handle) GetPointerMode() (PointerMode, error) {
	if h == nil {
		return 0, newError("GetPointerMode", StatusInvalidHandle, "handle is nil")
	}
	return h.pointerMode, nil
}

// runnerFor returns the compiled kernel set for precision T
func runnerFor[T Real](h *Handle) (*runner.Runner, error) {
	dt := runner.DataTypeOf[T]()
	if r, ok := h.runners[dt]; ok {
		return r, nil
	}
	r := runner.NewRunner(h.device, builder.Config{
		FloatType: dt,
		IntType:   builder.INT32,
		BlockSize: h.blockSize,
	})
	if err := buildKernels(r); err != nil {
		r.Free()
		return nil, fmt.Errorf("building %v kernels: %w", dt, err)
	}
	h.log.WithFields(logrus.Fields{
		"precision": dt.String(),
		"kernels":   len(r.Kernels),
	}).Debug("kernels compiled")
	h.runners[dt] = r
	return r, nil
}

// realArg converts a coefficient to the exact Go type the kernel expects
func realArg[T Real](v T) interface{} {
	switch x := any(v).(type) {
	case float32:
		return x
	case float64:
		return x
	}
	return float64(v)
}
