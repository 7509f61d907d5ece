package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleSuite = `
name: quick
cases:
  - name: hyb-user-default
    function: csr2hyb
    precision: s
    m: 64
    n: 32
    part: user
  - function: roti
    n: 1000
    nnz: 100
    alpha: 0.6
    beta: 0.8
    baseA: 1
    timing: true
    iters: 3
`

func TestParseSuite(t *testing.T) {
	suite, err := ParseSuite([]byte(exampleSuite))
	require.NoError(t, err)
	assert.Equal(t, "quick", suite.Name)
	require.Len(t, suite.Cases, 2)

	hyb := suite.Cases[0]
	assert.Equal(t, "hyb-user-default", hyb.Name)
	assert.Equal(t, "s", hyb.Precision)
	assert.Equal(t, 64, hyb.M)
	assert.Equal(t, 32, hyb.N)
	assert.Equal(t, EllWidthDefault, hyb.EllWidth, "unset fields keep their defaults")
	assert.True(t, hyb.UnitCheck)

	roti := suite.Cases[1]
	assert.Equal(t, "roti-1", roti.Name)
	assert.Equal(t, "d", roti.Precision)
	assert.Equal(t, 100, roti.Nnz)
	assert.InDelta(t, 0.8, roti.Beta, 0)
	assert.Equal(t, 1, roti.BaseA)
	assert.True(t, roti.Timing)
	assert.Equal(t, 3, roti.Iters)
}

func TestParseSuiteInvalid(t *testing.T) {
	for name, src := range map[string]string{
		"function":  "cases:\n  - function: spmv\n",
		"precision": "cases:\n  - precision: z\n",
		"base":      "cases:\n  - baseA: 2\n",
		"partition": "cases:\n  - part: ell\n",
		"yaml":      "cases: [\n",
	} {
		_, err := ParseSuite([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestLoadSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleSuite), 0o644))
	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Len(t, suite.Cases, 2)

	_, err = LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBundledSuites(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "suites", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		suite, err := LoadSuite(path)
		require.NoError(t, err, path)
		assert.NotEmpty(t, suite.Cases, path)
	}
}
