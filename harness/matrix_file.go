package harness

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/notargets/SparseKernel/sparse"
	lz4 "github.com/pierrec/lz4/v4"
)

// ReadMatrixFile loads a zero-based CSR matrix. Supported names:
//
//	*.bin                    binary CSR (int32 m, n, nnz; rowptr; col; float64 val)
//	*.mtx, *.mtx.zst, *.mtx.lz4  Matrix Market coordinate
func ReadMatrixFile(path string) (*CSR[float64], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open [read] %s: %w", path, err)
	}

	name := path
	switch {
	case strings.HasSuffix(name, ".zst"):
		if raw, err = zstdDecode(raw); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		name = strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".lz4"):
		if raw, err = lz4Decode(raw); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		name = strings.TrimSuffix(name, ".lz4")
	}

	var csr *CSR[float64]
	switch {
	case strings.HasSuffix(name, ".bin"):
		csr, err = ReadBinCSR(bytes.NewReader(raw))
	case strings.HasSuffix(name, ".mtx"):
		csr, err = ReadMatrixMarket(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unknown matrix file type %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return csr, nil
}

func zstdDecode(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

func lz4Decode(b []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(b))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadBinCSR reads the binary CSR layout, all little endian
func ReadBinCSR(r io.Reader) (*CSR[float64], error) {
	var hdr [3]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	m, n, nnz := int(hdr[0]), int(hdr[1]), int(hdr[2])
	if m < 0 || n < 0 || nnz < 0 {
		return nil, fmt.Errorf("invalid header %dx%d nnz %d", m, n, nnz)
	}
	csr := &CSR[float64]{
		M:      m,
		N:      n,
		Base:   sparse.IndexBaseZero,
		RowPtr: make([]int32, m+1),
		ColInd: make([]int32, nnz),
		Val:    make([]float64, nnz),
	}
	if err := binary.Read(r, binary.LittleEndian, csr.RowPtr); err != nil {
		return nil, fmt.Errorf("row pointer: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, csr.ColInd); err != nil {
		return nil, fmt.Errorf("column indices: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, csr.Val); err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	if err := csr.Validate(); err != nil {
		return nil, err
	}
	return csr, nil
}

// WriteBinCSR writes c in the layout read by ReadBinCSR. c must be zero based.
func WriteBinCSR(w io.Writer, c *CSR[float64]) error {
	if c.Base != sparse.IndexBaseZero {
		c = c.Rebase(sparse.IndexBaseZero)
	}
	hdr := [3]int32{int32(c.M), int32(c.N), int32(c.Nnz())}
	for _, v := range []any{hdr, c.RowPtr, c.ColInd, c.Val} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

type mtxEntry struct {
	row, col int32
	val      float64
}

// ReadMatrixMarket reads a coordinate Matrix Market stream with real,
// integer or pattern values and general or symmetric storage.
func ReadMatrixMarket(r io.Reader) (*CSR[float64], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("empty stream")
	}
	banner := strings.Fields(strings.ToLower(sc.Text()))
	if len(banner) != 5 || banner[0] != "%%matrixmarket" || banner[1] != "matrix" {
		return nil, fmt.Errorf("invalid banner %q", sc.Text())
	}
	if banner[2] != "coordinate" {
		return nil, fmt.Errorf("unsupported format %s", banner[2])
	}
	field, symmetry := banner[3], banner[4]
	switch field {
	case "real", "integer", "pattern":
	default:
		return nil, fmt.Errorf("unsupported field %s", field)
	}
	switch symmetry {
	case "general", "symmetric":
	default:
		return nil, fmt.Errorf("unsupported symmetry %s", symmetry)
	}

	var m, n, declared int
	sized := false
	var entries []mtxEntry
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields := strings.Fields(text)
		if !sized {
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: size line needs 3 fields", line)
			}
			var err error
			if m, err = strconv.Atoi(fields[0]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if declared, err = strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			entries = make([]mtxEntry, 0, 2*declared)
			sized = true
			continue
		}

		want := 3
		if field == "pattern" {
			want = 2
		}
		if len(fields) < want {
			return nil, fmt.Errorf("line %d: expected %d fields", line, want)
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if i < 1 || i > m || j < 1 || j > n {
			return nil, fmt.Errorf("line %d: entry (%d, %d) outside %dx%d", line, i, j, m, n)
		}
		v := 1.0
		if field != "pattern" {
			if v, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		entries = append(entries, mtxEntry{row: int32(i - 1), col: int32(j - 1), val: v})
		if symmetry == "symmetric" && i != j {
			entries = append(entries, mtxEntry{row: int32(j - 1), col: int32(i - 1), val: v})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sized {
		return nil, fmt.Errorf("missing size line")
	}

	slices.SortFunc(entries, func(a, b mtxEntry) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})
	coo := &COO[float64]{
		M:      m,
		N:      n,
		Base:   sparse.IndexBaseZero,
		RowInd: make([]int32, len(entries)),
		ColInd: make([]int32, len(entries)),
		Val:    make([]float64, len(entries)),
	}
	for k, e := range entries {
		coo.RowInd[k], coo.ColInd[k], coo.Val[k] = e.row, e.col, e.val
	}
	return COOToCSR(coo)
}
