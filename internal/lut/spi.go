package lut

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadSPI1D parses a Sony Pictures Imageworks .spi1d file. Single component
// files are expanded to three identical channels.
func ReadSPI1D(r io.Reader) (*LUT1D, error) {
	var (
		l          = &LUT1D{Min: 0, Max: 1}
		length     = -1
		components = 1
		inBody     bool
		values     []float32
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if inBody {
			if text == "}" {
				inBody = false
				continue
			}
			for _, s := range strings.Fields(text) {
				v, err := strconv.ParseFloat(s, 32)
				if err != nil {
					return nil, fmt.Errorf("%w: bad number %q", ErrInvalidFormat, s)
				}
				values = append(values, float32(v))
			}
			continue
		}

		fields := strings.Fields(text)
		switch fields[0] {
		case "Version":
		case "From":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w: From: %v", ErrInvalidFormat, err)
			}
			l.Min, l.Max = v[0], v[1]
		case "Length":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: Length needs one value", ErrInvalidFormat)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 {
				return nil, fmt.Errorf("%w: bad length %q", ErrInvalidFormat, fields[1])
			}
			length = n
		case "Components":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: Components needs one value", ErrInvalidFormat)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || (n != 1 && n != 3) {
				return nil, fmt.Errorf("%w: bad components %q", ErrInvalidFormat, fields[1])
			}
			components = n
		case "{":
			inBody = true
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFormat, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spi1d: %w", err)
	}

	if length < 0 {
		return nil, fmt.Errorf("%w: missing Length", ErrInvalidFormat)
	}
	if len(values) != length*components {
		return nil, fmt.Errorf("%w: expected %d values, found %d", ErrInvalidFormat, length*components, len(values))
	}
	if !(l.Max > l.Min) {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidFormat)
	}

	l.Data = make([][3]float32, length)
	for i := range l.Data {
		if components == 1 {
			v := values[i]
			l.Data[i] = [3]float32{v, v, v}
		} else {
			l.Data[i] = [3]float32{values[3*i], values[3*i+1], values[3*i+2]}
		}
	}
	return l, nil
}

// WriteSPI1D writes l as a three component .spi1d file.
func WriteSPI1D(w io.Writer, l *LUT1D) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Version 1")
	fmt.Fprintf(bw, "From %f %f\n", l.Min, l.Max)
	fmt.Fprintf(bw, "Length %d\n", l.Size())
	fmt.Fprintln(bw, "Components 3")
	fmt.Fprintln(bw, "{")
	for _, v := range l.Data {
		fmt.Fprintf(bw, "    %f %f %f\n", v[0], v[1], v[2])
	}
	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write spi1d: %w", err)
	}
	return nil
}
