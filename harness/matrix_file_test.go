package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/notargets/SparseKernel/sparse"
	lz4 "github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generalMtx = `%%MatrixMarket matrix coordinate real general
% 4x4 example
4 4 6
1 1 1.0
1 2 2.0
2 2 3.0
3 1 4.0
3 3 5.0
4 4 6.0
`

func TestReadMatrixMarketGeneral(t *testing.T) {
	csr, err := ReadMatrixMarket(strings.NewReader(generalMtx))
	require.NoError(t, err)
	assert.Equal(t, 4, csr.M)
	assert.Equal(t, 4, csr.N)
	assert.Equal(t, sparse.IndexBaseZero, csr.Base)
	assert.Equal(t, []int32{0, 2, 3, 5, 6}, csr.RowPtr)
	assert.Equal(t, []int32{0, 1, 1, 0, 2, 3}, csr.ColInd)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, csr.Val)
}

func TestReadMatrixMarketSymmetricPattern(t *testing.T) {
	src := `%%MatrixMarket matrix coordinate pattern symmetric
3 3 3
1 1
3 1
3 2
`
	csr, err := ReadMatrixMarket(strings.NewReader(src))
	require.NoError(t, err)
	// Off diagonal entries are mirrored, rows sorted by column
	assert.Equal(t, []int32{0, 2, 3, 5}, csr.RowPtr)
	assert.Equal(t, []int32{0, 2, 2, 0, 1}, csr.ColInd)
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, csr.Val)
}

func TestReadMatrixMarketErrors(t *testing.T) {
	for name, src := range map[string]string{
		"empty":       "",
		"banner":      "%%NotMarket matrix coordinate real general\n1 1 0\n",
		"array":       "%%MatrixMarket matrix array real general\n1 1\n1.0\n",
		"complex":     "%%MatrixMarket matrix coordinate complex general\n1 1 0\n",
		"range":       "%%MatrixMarket matrix coordinate real general\n2 2 1\n3 1 1.0\n",
		"missing val": "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1\n",
		"no size":     "%%MatrixMarket matrix coordinate real general\n% only comments\n",
	} {
		_, err := ReadMatrixMarket(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestBinRoundTrip(t *testing.T) {
	want, err := ReadMatrixMarket(strings.NewReader(generalMtx))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBinCSR(&buf, want))
	got, err := ReadBinCSR(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ReadBinCSR(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestReadMatrixFileCompressed(t *testing.T) {
	dir := t.TempDir()
	want, err := ReadMatrixMarket(strings.NewReader(generalMtx))
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := filepath.Join(dir, "example.mtx.zst")
	require.NoError(t, os.WriteFile(zstPath, enc.EncodeAll([]byte(generalMtx), nil), 0o644))
	require.NoError(t, enc.Close())

	var lz4Buf bytes.Buffer
	w := lz4.NewWriter(&lz4Buf)
	_, err = w.Write([]byte(generalMtx))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	lz4Path := filepath.Join(dir, "example.mtx.lz4")
	require.NoError(t, os.WriteFile(lz4Path, lz4Buf.Bytes(), 0o644))

	var binBuf bytes.Buffer
	require.NoError(t, WriteBinCSR(&binBuf, want))
	binPath := filepath.Join(dir, "example.bin")
	require.NoError(t, os.WriteFile(binPath, binBuf.Bytes(), 0o644))

	for _, path := range []string{zstPath, lz4Path, binPath} {
		got, err := ReadMatrixFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err = ReadMatrixFile(filepath.Join(dir, "missing.mtx"))
	assert.Error(t, err)

	other := filepath.Join(dir, "example.txt")
	require.NoError(t, os.WriteFile(other, []byte(generalMtx), 0o644))
	_, err = ReadMatrixFile(other)
	assert.Error(t, err)
}

func TestGenerateCSRMatrixFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.mtx")
	require.NoError(t, os.WriteFile(path, []byte(generalMtx), 0o644))

	// File dimensions win over the requested ones
	csr, err := GenerateCSRMatrix[float32](NewRNG(Seed), path, 100, 100, sparse.IndexBaseOne)
	require.NoError(t, err)
	assert.Equal(t, 4, csr.M)
	assert.Equal(t, []int32{1, 3, 4, 6, 7}, csr.RowPtr)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, csr.Val)
}
