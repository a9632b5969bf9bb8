package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// SupportedExtensions lists the file extensions Open can decode, without the
// leading dot.
func SupportedExtensions() []string {
	return []string{"png", "jpg", "jpeg", "gif", "tif", "tiff", "bmp"}
}

// Open decodes an image file into a 4 channel float image.
//
// EXIF orientation is applied for JPEG files. 8-bit and 16-bit sources are
// normalized to 0-1; alpha is un-premultiplied.
func Open(path string) (*Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img := FromImage(src)
	img.Source.Path = path
	img.Source.Format = formatFromExt(path)
	return img, nil
}

// FromImage converts any image.Image into a 4 channel float image.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := New(b.Dx(), b.Dy(), 4)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
			img.Pix[i] = float32(c.R) / 0xffff
			img.Pix[i+1] = float32(c.G) / 0xffff
			img.Pix[i+2] = float32(c.B) / 0xffff
			img.Pix[i+3] = float32(c.A) / 0xffff
			i += 4
		}
	}

	img.Source.ColorDepth = "8-bit"
	switch src.(type) {
	case *image.RGBA, *image.NRGBA:
		img.Source.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		img.Source.HasAlpha = true
		img.Source.ColorDepth = "16-bit"
	case *image.Gray16:
		img.Source.ColorDepth = "16-bit"
	}
	return img
}

// ToNRGBA64 encodes the image as 16-bit non-premultiplied RGBA, clamping
// samples to 0-1. Gray images are expanded to RGB; missing alpha is opaque.
func (m *Image) ToNRGBA64() *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			px := m.Pixel(x, y)
			var c color.NRGBA64
			switch {
			case m.Channels >= 3:
				c.R, c.G, c.B = to16(px[0]), to16(px[1]), to16(px[2])
			case m.Channels >= 1:
				c.R = to16(px[0])
				c.G, c.B = c.R, c.R
			}
			c.A = 0xffff
			if m.Channels >= 4 {
				c.A = to16(px[3])
			}
			out.SetNRGBA64(x, y, c)
		}
	}
	return out
}

// Save encodes the image to path; the format is chosen from the extension.
// PNG and TIFF outputs keep 16 bits per channel.
func (m *Image) Save(path string) error {
	if m.Empty() {
		return fmt.Errorf("failed to save image: empty image")
	}
	out := m.ToNRGBA64()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create image file: %w", err)
		}
		defer f.Close()
		if err := tiff.Encode(f, out, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("failed to encode tiff: %w", err)
		}
		return nil
	default:
		if err := imaging.Save(out, path); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
		return nil
	}
}

// Fit returns a proxy of the image scaled down to fit inside width x height,
// keeping its aspect ratio. Images already smaller are copied unchanged.
// The proxy is resampled through an 8-bit buffer.
func (m *Image) Fit(width, height int) *Image {
	if m.Width <= width && m.Height <= height {
		return m.Clone()
	}
	fitted := imaging.Fit(m.ToNRGBA64(), width, height, imaging.Lanczos)
	out := FromImage(fitted)
	out.Source = m.Source
	if m.Channels < 4 {
		out = out.dropAlpha(m.Channels)
	}
	return out
}

// EncodeResult contains an image encoded as base64 PNG.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNGBase64 encodes the image as a 16-bit PNG in base64.
func (m *Image) EncodePNGBase64() (*EncodeResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.ToNRGBA64()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodeResult{
		Width:       m.Width,
		Height:      m.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func (m *Image) dropAlpha(channels int) *Image {
	out := New(m.Width, m.Height, channels)
	out.Source = m.Source
	for i := 0; i < m.Count(); i++ {
		copy(out.Pix[i*channels:(i+1)*channels], m.Pix[i*m.Channels:i*m.Channels+channels])
	}
	return out
}

func to16(v float32) uint16 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	default:
		return "unknown"
	}
}
