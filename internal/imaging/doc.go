// Package imaging provides the float image buffer the look pipeline works on,
// together with decoding, encoding, proxy generation and pixel sampling.
//
// # Pixel Model
//
// Image stores interleaved float32 samples, row-major, with (0,0) at the
// top-left corner. Decoded files always become 4 channel RGBA with alpha
// un-premultiplied. Synthetic images built for transform characterization
// (Ramp1D, Lattice) are 3 channel RGB.
//
// Samples are not clamped in memory. Clamping to 0-1 only happens when an
// image is encoded (Save, EncodePNGBase64, ToNRGBA64).
//
// # Lattice Order
//
// Lattice packs the nodes of a size^3 RGB cube with red varying fastest and
// blue slowest, the order used by .cube files. Code that serializes a
// processed lattice reads the first size^3 pixels back in storage order.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Image values are not: an Image must
// not be mutated while another goroutine reads it. Images returned by the
// cache are shared and must be cloned before modification.
//
// # Error Handling
//
// Functions return errors for:
//   - Coordinates outside image bounds
//   - Mismatched image shapes in Combine
//   - File I/O and decode/encode failures
package imaging
