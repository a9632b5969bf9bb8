package imaging

// RampType selects which channels a 1D ramp drives.
type RampType int

const (
	RampGray RampType = iota
	RampNeutral
	RampRed
	RampGreen
	RampBlue
)

// Ramp1D builds a size x 1 image whose samples go linearly from min to max.
// RampGray yields a single channel image; all other types yield RGB, with the
// channels not driven by the ramp set to zero.
func Ramp1D(size int, min, max float32, t RampType) *Image {
	channels := 3
	if t == RampGray {
		channels = 1
	}
	img := New(size, 1, channels)
	for i := 0; i < size; i++ {
		v := min
		if size > 1 {
			v = min + (max-min)*float32(i)/float32(size-1)
		}
		px := img.Pix[i*channels : (i+1)*channels]
		switch t {
		case RampGray:
			px[0] = v
		case RampNeutral:
			px[0], px[1], px[2] = v, v, v
		case RampRed:
			px[0] = v
		case RampGreen:
			px[1] = v
		case RampBlue:
			px[2] = v
		}
	}
	return img
}

// DefaultLatticeWidth is the row width used by Lattice when maxWidth is zero.
const DefaultLatticeWidth = 512

// Lattice builds an RGB image holding every node of a size^3 color lattice.
//
// Nodes are stored in red-fastest order: node i has
//
//	r = i % size, g = (i / size) % size, b = i / (size*size)
//
// each normalized to 0-1. The nodes are packed into rows of at most maxWidth
// pixels; trailing pixels of the last row, if any, are zero and are not part
// of the lattice.
func Lattice(size, maxWidth int) *Image {
	if size < 2 {
		size = 2
	}
	if maxWidth <= 0 {
		maxWidth = DefaultLatticeWidth
	}

	count := size * size * size
	width := count
	if width > maxWidth {
		width = maxWidth
	}
	height := (count + width - 1) / width

	img := New(width, height, 3)
	scale := float32(size - 1)
	i := 0
	for b := 0; b < size; b++ {
		bn := float32(b) / scale
		for g := 0; g < size; g++ {
			gn := float32(g) / scale
			for r := 0; r < size; r++ {
				img.Pix[i*3] = float32(r) / scale
				img.Pix[i*3+1] = gn
				img.Pix[i*3+2] = bn
				i++
			}
		}
	}
	return img
}
