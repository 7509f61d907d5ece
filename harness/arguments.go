package harness

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/SparseKernel/sparse"
	"github.com/notargets/gocca"
	"github.com/sirupsen/logrus"
)

// EllWidthDefault requests a precomputed ELL width of nnz/m for the USER
// partition. The value is shared with existing suite files.
const EllWidthDefault = -33

// Seed is used for every generated input
const Seed = 12345

// Arguments parametrize one harness case
type Arguments struct {
	Function  string  `json:"function" yaml:"function"`
	Precision string  `json:"precision" yaml:"precision"` // "s" or "d"
	M         int     `json:"m" yaml:"m"`
	N         int     `json:"n" yaml:"n"`
	Nnz       int     `json:"nnz" yaml:"nnz"`
	Alpha     float64 `json:"alpha" yaml:"alpha"`
	Beta      float64 `json:"beta" yaml:"beta"`
	BaseA     int     `json:"baseA" yaml:"baseA"`
	Part      string  `json:"part" yaml:"part"`
	EllWidth  int     `json:"ellWidth" yaml:"ellWidth"`
	Filename  string  `json:"filename,omitempty" yaml:"filename,omitempty"`
	UnitCheck bool    `json:"unitCheck" yaml:"unitCheck"`
	Timing    bool    `json:"timing" yaml:"timing"`
	Iters     int     `json:"iters" yaml:"iters"`
}

// DefaultArguments returns the settings used when a case leaves fields unset
func DefaultArguments() Arguments {
	return Arguments{
		Function:  "csr2hyb",
		Precision: "d",
		M:         128,
		N:         128,
		Nnz:       32,
		Alpha:     1.0,
		Beta:      0.0,
		BaseA:     0,
		Part:      "auto",
		EllWidth:  EllWidthDefault,
		UnitCheck: true,
		Timing:    false,
		Iters:     10,
	}
}

// IndexBase returns BaseA as a library index base
func (a Arguments) IndexBase() sparse.IndexBase {
	return sparse.IndexBase(a.BaseA)
}

// Partition parses Part
func (a Arguments) Partition() (sparse.HybPartition, error) {
	return sparse.ParseHybPartition(a.Part)
}

// Validate rejects settings no procedure can run with
func (a Arguments) Validate() error {
	switch a.Function {
	case "csr2hyb", "roti", "roti_inverse":
	default:
		return fmt.Errorf("unknown function %q", a.Function)
	}
	switch a.Precision {
	case "s", "d":
	default:
		return fmt.Errorf("unknown precision %q", a.Precision)
	}
	if a.BaseA != 0 && a.BaseA != 1 {
		return fmt.Errorf("index base must be 0 or 1, got %d", a.BaseA)
	}
	if a.Function == "csr2hyb" {
		if _, err := a.Partition(); err != nil {
			return err
		}
	}
	if a.Iters < 0 {
		return fmt.Errorf("negative iteration count %d", a.Iters)
	}
	return nil
}

// Env carries what every procedure needs besides its Arguments. Timing
// reports go to Out.
type Env struct {
	Device *gocca.OCCADevice
	Out    io.Writer
	Log    *logrus.Entry
}

// NewEnv returns an Env writing reports to stdout
func NewEnv(device *gocca.OCCADevice) *Env {
	return &Env{
		Device: device,
		Out:    os.Stdout,
		Log:    logrus.WithField("component", "harness"),
	}
}

func (e *Env) logger(a Arguments) *logrus.Entry {
	log := e.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return log.WithFields(logrus.Fields{
		"function":  a.Function,
		"precision": a.Precision,
	})
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return io.Discard
	}
	return e.Out
}
