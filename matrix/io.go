// SPDX-License-Identifier: MIT

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a similarity matrix from text: one row per line, values
// separated by commas, semicolons, tabs or spaces. Blank lines and lines
// starting with '#' are skipped. The result is not validated beyond shape;
// run ValidateSimilarity before use.
//
// Errors: ErrParse for non-numeric cells, ErrRagged for uneven rows.
// Complexity: O(r*c).
func ReadCSV(r io.Reader) (*Dense, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30) // wide matrices produce very long lines
	line := 0
	for sc.Scan() {
		line++
		row, skip, err := parseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w", line, err)
		}
		if skip {
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ReadCSV: %w", err)
	}

	return NewDenseFrom(rows)
}

// ReadVectorCSV parses a flat list of numbers (one per line, or separated as
// in ReadCSV). It is used for per-node radius arrays.
func ReadVectorCSV(r io.Reader) ([]float64, error) {
	var out []float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)
	line := 0
	for sc.Scan() {
		line++
		row, skip, err := parseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("ReadVectorCSV: line %d: %w", line, err)
		}
		if !skip {
			out = append(out, row...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ReadVectorCSV: %w", err)
	}

	return out, nil
}

// parseLine splits one text line into floats; skip is true for blank/comment lines.
// Commas and semicolons delimit cells, so an empty cell between them is ErrParse;
// runs of whitespace also separate values but collapse.
func parseLine(s string) (row []float64, skip bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "#") {
		return nil, true, nil
	}
	cell := 0
	for _, chunk := range strings.Split(strings.ReplaceAll(s, ";", ","), ",") {
		fields := strings.Fields(chunk)
		if len(fields) == 0 {
			return nil, false, fmt.Errorf("field %d: empty cell: %w", cell+1, ErrParse)
		}
		for _, f := range fields {
			cell++
			v, perr := strconv.ParseFloat(f, 64)
			if perr != nil {
				return nil, false, fmt.Errorf("field %d %q: %w", cell, f, ErrParse)
			}
			row = append(row, v)
		}
	}

	return row, false, nil
}

// WriteCSV writes m as comma-separated rows readable by ReadCSV.
// Values use the shortest representation that round-trips.
func WriteCSV(w io.Writer, m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return fmt.Errorf("WriteCSV: %w", err)
			}
			if j > 0 {
				_ = bw.WriteByte(',')
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			_, _ = bw.Write(buf)
		}
		_ = bw.WriteByte('\n')
	}

	return bw.Flush()
}
