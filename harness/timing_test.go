package harness

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGbyteCounts(t *testing.T) {
	// 4*(m+1+nnz) + 8*nnz + 12*ell_nnz + 16*coo_nnz
	assert.InDelta(t, (4.0*11+8*6+12*8+16*2)/1e9, Csr2HybGbyteCount[float64](4, 6, 8, 2), 1e-18)
	// 4*(m+1+nnz) + 4*nnz + 8*ell_nnz + 12*coo_nnz
	assert.InDelta(t, (4.0*11+4*6+8*8+12*2)/1e9, Csr2HybGbyteCount[float32](4, 6, 8, 2), 1e-18)

	assert.InDelta(t, (4.0*100+8*4*100)/1e9, RotiGbyteCount[float64](100), 1e-18)
	assert.InDelta(t, (4.0*100+4*4*100)/1e9, RotiGbyteCount[float32](100), 1e-18)
	assert.InDelta(t, 600/1e9, RotiGflopCount(100), 1e-18)
}

func TestThroughput(t *testing.T) {
	// 1 GB in 1000 us is 1000 GB/s
	assert.InDelta(t, 1000.0, GpuGbyte(1000, 1), 1e-9)
	assert.InDelta(t, 2.0, GpuGflops(500, 1e-3), 1e-9)
	assert.InDelta(t, 1.5, GpuTimeMsec(1500), 1e-12)
}

func TestMeasure(t *testing.T) {
	calls := 0
	tm, err := Measure(5, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ColdCalls+5, calls)
	assert.Equal(t, 5, tm.Calls)
	assert.GreaterOrEqual(t, tm.MeanUs, tm.MinUs)

	boom := errors.New("boom")
	calls = 0
	_, err = Measure(5, func() error {
		calls++
		if calls == ColdCalls+2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)

	tm, err = Measure(0, func() error { return nil })
	require.NoError(t, err)
	assert.Zero(t, tm.Calls)
}

func TestDisplayTimingInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayTimingInfo(&buf, "nnz", 100, "GB/s", 12.5, "msec", 0.25))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"nnz", "GB/s", "msec"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"100", "12.5", "0.25"}, strings.Fields(lines[1]))

	assert.Error(t, DisplayTimingInfo(&buf, "nnz"))
}
