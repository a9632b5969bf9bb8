package lut

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File is the parsed content of a LUT file. Exactly one of Shaper or Cube is
// set unless the file carries both (a .cube with a 1D shaper and a 3D body).
type File struct {
	Title  string
	Shaper *LUT1D
	Cube   *LUT3D
}

// ReadCube parses a .cube file (Resolve/Adobe flavor), 1D or 3D.
func ReadCube(r io.Reader) (*File, error) {
	var (
		f            File
		size1, size3 int
		min          = [3]float32{0, 0, 0}
		max          = [3]float32{1, 1, 1}
		range1       *[2]float32
		range3       *[2]float32
		rows         [][3]float32
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		key := fields[0]

		switch key {
		case "TITLE":
			f.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(text, "TITLE")), `"`)
			continue
		case "LUT_1D_SIZE", "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: line %d: %s needs one value", ErrInvalidFormat, line, key)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 {
				return nil, fmt.Errorf("%w: line %d: bad size %q", ErrInvalidFormat, line, fields[1])
			}
			if key == "LUT_1D_SIZE" {
				size1 = n
			} else {
				size3 = n
			}
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFormat, line, err)
			}
			if key == "DOMAIN_MIN" {
				min = [3]float32{v[0], v[1], v[2]}
			} else {
				max = [3]float32{v[0], v[1], v[2]}
			}
			continue
		case "LUT_1D_INPUT_RANGE", "LUT_3D_INPUT_RANGE":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFormat, line, err)
			}
			rg := [2]float32{v[0], v[1]}
			if key == "LUT_1D_INPUT_RANGE" {
				range1 = &rg
			} else {
				range3 = &rg
			}
			continue
		}

		v, err := parseFloats(fields, 3)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFormat, line, err)
		}
		rows = append(rows, [3]float32{v[0], v[1], v[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cube: %w", err)
	}

	if size1 == 0 && size3 == 0 {
		return nil, fmt.Errorf("%w: missing LUT_1D_SIZE or LUT_3D_SIZE", ErrInvalidFormat)
	}
	want := size1 + size3*size3*size3
	if len(rows) != want {
		return nil, fmt.Errorf("%w: expected %d entries, found %d", ErrInvalidFormat, want, len(rows))
	}

	if size1 > 0 {
		s := &LUT1D{Min: min[0], Max: max[0], Data: rows[:size1]}
		if range1 != nil {
			s.Min, s.Max = range1[0], range1[1]
		}
		if !(s.Max > s.Min) {
			return nil, fmt.Errorf("%w: empty 1D domain", ErrInvalidFormat)
		}
		f.Shaper = s
	}
	if size3 > 0 {
		c := &LUT3D{N: size3, Min: min, Max: max, Data: rows[size1:]}
		if range3 != nil {
			c.Min = [3]float32{range3[0], range3[0], range3[0]}
			c.Max = [3]float32{range3[1], range3[1], range3[1]}
		}
		for i := 0; i < 3; i++ {
			if !(c.Max[i] > c.Min[i]) {
				return nil, fmt.Errorf("%w: empty 3D domain", ErrInvalidFormat)
			}
		}
		f.Cube = c
	}
	return &f, nil
}

// WriteCube3D writes l as a 3D .cube file: the size line, the domain lines,
// a blank line, then one "r g b" line per node in red-fastest order.
func WriteCube3D(w io.Writer, l *LUT3D) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.N)
	fmt.Fprintf(bw, "DOMAIN_MIN %.6f %.6f %.6f\n", l.Min[0], l.Min[1], l.Min[2])
	fmt.Fprintf(bw, "DOMAIN_MAX %.6f %.6f %.6f\n", l.Max[0], l.Max[1], l.Max[2])
	fmt.Fprintln(bw)
	for _, v := range l.Data {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", v[0], v[1], v[2])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write cube: %w", err)
	}
	return nil
}

// WriteCube1D writes l as a 1D .cube file.
func WriteCube1D(w io.Writer, l *LUT1D) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "LUT_1D_SIZE %d\n", l.Size())
	fmt.Fprintf(bw, "DOMAIN_MIN %.6f %.6f %.6f\n", l.Min, l.Min, l.Min)
	fmt.Fprintf(bw, "DOMAIN_MAX %.6f %.6f %.6f\n", l.Max, l.Max, l.Max)
	fmt.Fprintln(bw)
	for _, v := range l.Data {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", v[0], v[1], v[2])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write cube: %w", err)
	}
	return nil
}

// Load reads a LUT file, picking the parser from the extension.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lut: %w", err)
	}
	defer fh.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cube":
		return ReadCube(fh)
	case ".spi1d":
		s, err := ReadSPI1D(fh)
		if err != nil {
			return nil, err
		}
		return &File{Shaper: s}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrInvalidFormat, ext)
	}
}

// Extensions lists the file extensions Load understands.
func Extensions() []string {
	return []string{".cube", ".spi1d"}
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d values, found %d", n, len(fields))
	}
	out := make([]float32, n)
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		out[i] = float32(v)
	}
	return out, nil
}
