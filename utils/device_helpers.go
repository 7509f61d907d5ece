package utils

import (
	"fmt"
	"os"

	"github.com/notargets/gocca"
	"github.com/sirupsen/logrus"
)

// DeviceEnv names the environment variable holding OCCA device properties
// that take precedence over the built-in backend list.
const DeviceEnv = "SPARSEKERNEL_DEVICE"

// DefaultBackends is the fallback order used when no device is requested
var DefaultBackends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// CreateDevice opens the first backend that succeeds. An explicit props
// string is tried first, then DeviceEnv, then DefaultBackends.
func CreateDevice(props string) (*gocca.OCCADevice, error) {
	candidates := make([]string, 0, len(DefaultBackends)+2)
	if props != "" {
		candidates = append(candidates, props)
	}
	if env := os.Getenv(DeviceEnv); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, DefaultBackends...)

	var lastErr error
	for _, p := range candidates {
		device, err := gocca.NewDevice(p)
		if err == nil {
			logrus.WithField("mode", device.Mode()).Debug("created device")
			return device, nil
		}
		logrus.WithError(err).WithField("props", p).Debug("device unavailable")
		lastErr = err
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", lastErr)
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	device, err := CreateDevice("")
	if err != nil {
		// Should not reach here, Serial is always built
		panic(err)
	}
	return device
}
