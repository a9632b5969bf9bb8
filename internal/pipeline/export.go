package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/lut"
)

// MinLUTSize is the smallest lattice ExportLUT accepts.
const MinLUTSize = 2

// BakeLUT folds a size^3 lattice through the operators and returns it as a
// 3D table.
func (p *Pipeline) BakeLUT(size int) (*lut.LUT3D, error) {
	if size < MinLUTSize {
		return nil, fmt.Errorf("lut size must be at least %d, got %d", MinLUTSize, size)
	}
	lattice := p.ComputeImage(imaging.Lattice(size, 0))
	return lut.FromLattice(lattice, size)
}

// WriteLUT bakes a size^3 table and writes it to w as a .cube file.
func (p *Pipeline) WriteLUT(w io.Writer, size int) error {
	table, err := p.BakeLUT(size)
	if err != nil {
		return err
	}
	return lut.WriteCube3D(w, table)
}

// ExportLUT bakes a size^3 table and writes it to path as a .cube file.
// Nothing is written when the size is rejected.
func (p *Pipeline) ExportLUT(path string, size int) (err error) {
	defer func() { p.metrics.observeExport(p.name, err) }()

	table, err := p.BakeLUT(size)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := lut.WriteCube3D(fh, table); err != nil {
		fh.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	p.log.Info().
		Str("pipeline", p.name).
		Str("path", path).
		Int("size", size).
		Msg("lut exported")
	return nil
}
