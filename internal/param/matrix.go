package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Matrix4 is a row-major 4x4 matrix.
type Matrix4 [16]float32

// Identity4 is the 4x4 identity matrix.
var Identity4 = Matrix4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Matrix holds a 4x4 matrix, serialized as 16 space separated numbers.
type Matrix struct {
	base
	value Matrix4
	def   Matrix4
}

// NewMatrix creates a Matrix set to identity.
func NewMatrix(name string) *Matrix {
	p := &Matrix{value: Identity4, def: Identity4}
	p.init(p, name)
	return p
}

// Kind returns KindMatrix.
func (p *Matrix) Kind() Kind       { return KindMatrix }
func (p *Matrix) Value() Matrix4   { return p.value }
func (p *Matrix) Default() Matrix4 { return p.def }
func (p *Matrix) Reset()           { p.SetValue(p.def) }

// SetValue stores v and emits ValueChanged.
func (p *Matrix) SetValue(v Matrix4) {
	p.value = v
	p.emitValue()
}

// SetDefault changes the reset value and emits SpecChanged.
func (p *Matrix) SetDefault(v Matrix4) {
	p.def = v
	p.emitSpec()
}

// String formats the 16 values space separated, row-major.
func (p *Matrix) String() string {
	parts := make([]string, len(p.value))
	for i, v := range p.value {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

// Parse reads exactly 16 numbers separated by spaces or commas.
func (p *Matrix) Parse(s string) error {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 16 {
		return fmt.Errorf("%w: expected 16 numbers, found %d", ErrInvalidValue, len(fields))
	}
	var m Matrix4
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, f)
		}
		m[i] = float32(v)
	}
	p.SetValue(m)
	return nil
}
