package harness

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/notargets/SparseKernel/runner"
	"github.com/notargets/SparseKernel/sparse"
	"gonum.org/v1/gonum/stat"
)

// ColdCalls is the number of untimed warm-up calls before measurement
const ColdCalls = 2

// Timing summarizes the hot calls of a measurement, in microseconds
type Timing struct {
	Calls  int
	MeanUs float64
	StdUs  float64
	MinUs  float64
}

// Measure runs fn ColdCalls times untimed, then hot times timed. The first
// error aborts the measurement.
func Measure(hot int, fn func() error) (Timing, error) {
	for i := 0; i < ColdCalls; i++ {
		if err := fn(); err != nil {
			return Timing{}, err
		}
	}
	if hot <= 0 {
		return Timing{}, nil
	}
	samples := make([]float64, hot)
	for i := range samples {
		start := time.Now()
		if err := fn(); err != nil {
			return Timing{}, err
		}
		samples[i] = float64(time.Since(start).Nanoseconds()) / 1e3
	}
	mean, std := stat.MeanStdDev(samples, nil)
	minUs := samples[0]
	for _, s := range samples[1:] {
		minUs = min(minUs, s)
	}
	return Timing{Calls: hot, MeanUs: mean, StdUs: std, MinUs: minUs}, nil
}

// Csr2HybGbyteCount is the data moved by one conversion, in GB
func Csr2HybGbyteCount[T sparse.Real](m, nnz, ellNnz, cooNnz int) float64 {
	size := float64(runner.SizeOf[T]())
	return (4.0*float64(m+1+nnz) + size*float64(nnz) +
		(4.0+size)*float64(ellNnz) + (8.0+size)*float64(cooNnz)) / 1e9
}

// RotiGbyteCount is the data moved by one rotation, in GB
func RotiGbyteCount[T sparse.Real](nnz int) float64 {
	size := float64(runner.SizeOf[T]())
	return (4.0*float64(nnz) + size*4.0*float64(nnz)) / 1e9
}

// RotiGflopCount is the work of one rotation, in GFlop
func RotiGflopCount(nnz int) float64 {
	return 6.0 * float64(nnz) / 1e9
}

// GpuGbyte converts a per-call time in microseconds to GB/s
func GpuGbyte(timeUs, gbyte float64) float64 {
	return gbyte / timeUs * 1e6
}

// GpuGflops converts a per-call time in microseconds to GFlop/s
func GpuGflops(timeUs, gflop float64) float64 {
	return gflop / timeUs * 1e6
}

// GpuTimeMsec converts microseconds to milliseconds
func GpuTimeMsec(timeUs float64) float64 {
	return timeUs / 1e3
}

// DisplayTimingInfo writes alternating key, value pairs as a header line
// followed by a value line.
func DisplayTimingInfo(w io.Writer, pairs ...any) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("timing info needs key/value pairs, got %d items", len(pairs))
	}
	keys := make([]string, 0, len(pairs)/2)
	values := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		keys = append(keys, fmt.Sprint(pairs[i]))
		switch v := pairs[i+1].(type) {
		case float64:
			values = append(values, fmt.Sprintf("%.4g", v))
		default:
			values = append(values, fmt.Sprint(v))
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(keys, "\t")+"\t")
	fmt.Fprintln(tw, strings.Join(values, "\t")+"\t")
	return tw.Flush()
}
