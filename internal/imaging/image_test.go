package imaging

import (
	"math"
	"path/filepath"
	"testing"
)

func TestNew_Empty(t *testing.T) {
	if !New(0, 10, 3).Empty() {
		t.Error("zero width image should be empty")
	}
	var nilImg *Image
	if !nilImg.Empty() {
		t.Error("nil image should be empty")
	}
	if New(2, 2, 3).Empty() {
		t.Error("2x2 image should not be empty")
	}
}

func TestImage_Format(t *testing.T) {
	tests := []struct {
		channels int
		want     PixelFormat
	}{
		{1, FormatGray},
		{3, FormatRGB},
		{4, FormatRGBA},
		{2, FormatUnknown},
	}
	for _, tt := range tests {
		if got := New(1, 1, tt.channels).Format(); got != tt.want {
			t.Errorf("Format(%d channels): got %v, want %v", tt.channels, got, tt.want)
		}
	}
}

func TestImage_CloneIsDeep(t *testing.T) {
	a := New(2, 1, 3)
	a.Pix[0] = 0.5
	b := a.Clone()
	b.Pix[0] = 1

	if a.Pix[0] != 0.5 {
		t.Error("Clone shares pixel storage with its source")
	}
	if !a.SameShape(b) {
		t.Error("Clone changed shape")
	}
}

func TestImage_MapRGB(t *testing.T) {
	img := New(2, 1, 4)
	copy(img.Pix, []float32{0.1, 0.2, 0.3, 0.9, 0.4, 0.5, 0.6, 0.8})

	img.MapRGB(func(r, g, b float32) (float32, float32, float32) {
		return b, g, r
	})

	want := []float32{0.3, 0.2, 0.1, 0.9, 0.6, 0.5, 0.4, 0.8}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix: got %v, want %v", img.Pix, want)
		}
	}

	gray := New(2, 1, 1)
	gray.MapRGB(func(r, g, b float32) (float32, float32, float32) { return 1, 1, 1 })
	if gray.Pix[0] != 0 {
		t.Error("MapRGB must not touch images with fewer than 3 channels")
	}
}

func TestCombine(t *testing.T) {
	a := New(1, 1, 3)
	b := New(1, 1, 3)
	copy(a.Pix, []float32{0, 0.5, 1})
	copy(b.Pix, []float32{1, 1, 1})

	out, err := Combine(Term{a, 0.25}, Term{b, 0.75})
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	want := []float32{0.75, 0.875, 1}
	for i := range want {
		if math.Abs(float64(out.Pix[i]-want[i])) > 1e-6 {
			t.Errorf("Pix[%d]: got %v, want %v", i, out.Pix[i], want[i])
		}
	}
}

func TestCombine_Errors(t *testing.T) {
	if _, err := Combine(); err == nil {
		t.Error("Combine with no terms should fail")
	}
	if _, err := Combine(Term{New(1, 1, 3), 1}, Term{New(2, 1, 3), 1}); err == nil {
		t.Error("Combine with mismatched shapes should fail")
	}
}

func TestMix(t *testing.T) {
	a := New(1, 1, 1)
	b := New(1, 1, 1)
	b.Pix[0] = 1

	out, err := Mix(a, b, 0.5)
	if err != nil {
		t.Fatalf("Mix failed: %v", err)
	}
	if out.Pix[0] != 0.5 {
		t.Errorf("Mix: got %v, want 0.5", out.Pix[0])
	}
}

func TestRamp1D(t *testing.T) {
	tests := []struct {
		name     string
		rt       RampType
		channels int
		last     []float32
	}{
		{"gray", RampGray, 1, []float32{1}},
		{"neutral", RampNeutral, 3, []float32{1, 1, 1}},
		{"red", RampRed, 3, []float32{1, 0, 0}},
		{"green", RampGreen, 3, []float32{0, 1, 0}},
		{"blue", RampBlue, 3, []float32{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Ramp1D(5, 0, 1, tt.rt)
			if img.Width != 5 || img.Height != 1 || img.Channels != tt.channels {
				t.Fatalf("shape: got %dx%dx%d", img.Width, img.Height, img.Channels)
			}
			last := img.Pixel(4, 0)
			for i := range tt.last {
				if last[i] != tt.last[i] {
					t.Errorf("last pixel: got %v, want %v", last, tt.last)
				}
			}
			if img.Pixel(2, 0)[0] != 0.5 && tt.rt != RampGreen && tt.rt != RampBlue {
				t.Errorf("mid sample: got %v, want 0.5", img.Pixel(2, 0)[0])
			}
		})
	}
}

func TestLattice_Order(t *testing.T) {
	size := 3
	img := Lattice(size, 0)
	if img.Width != 27 || img.Height != 1 || img.Channels != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 27x1x3", img.Width, img.Height, img.Channels)
	}

	for i := 0; i < size*size*size; i++ {
		r := float32(i%size) / 2
		g := float32((i/size)%size) / 2
		b := float32(i/(size*size)) / 2
		px := img.Pix[i*3 : i*3+3]
		if px[0] != r || px[1] != g || px[2] != b {
			t.Fatalf("node %d: got %v, want [%v %v %v]", i, px, r, g, b)
		}
	}
}

func TestLattice_Wrapping(t *testing.T) {
	img := Lattice(4, 10)
	if img.Width != 10 || img.Height != 7 {
		t.Fatalf("shape: got %dx%d, want 10x7", img.Width, img.Height)
	}
	// 64 nodes in 70 pixels: the last 6 pixels are padding.
	for i := 64 * 3; i < len(img.Pix); i++ {
		if img.Pix[i] != 0 {
			t.Fatalf("padding sample %d is %v, want 0", i, img.Pix[i])
		}
	}
	last := img.Pix[63*3 : 63*3+3]
	if last[0] != 1 || last[1] != 1 || last[2] != 1 {
		t.Errorf("last node: got %v, want [1 1 1]", last)
	}
}

func TestSaveOpen_RoundTrip16Bit(t *testing.T) {
	img := New(3, 2, 4)
	for i := range img.Pix {
		img.Pix[i] = float32(i) / float32(len(img.Pix))
	}

	path := filepath.Join(t.TempDir(), "roundtrip.png")
	if err := img.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !got.SameShape(img) {
		t.Fatalf("shape changed: %dx%dx%d", got.Width, got.Height, got.Channels)
	}
	for i := range img.Pix {
		if math.Abs(float64(got.Pix[i]-img.Pix[i])) > 1.0/0xffff {
			t.Errorf("Pix[%d]: got %v, want %v", i, got.Pix[i], img.Pix[i])
		}
	}
}

func TestSave_Empty(t *testing.T) {
	if err := New(0, 0, 0).Save(filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("Save should refuse an empty image")
	}
}

func TestToNRGBA64_Clamps(t *testing.T) {
	img := New(1, 1, 3)
	copy(img.Pix, []float32{-1, 2, 0.5})

	c := img.ToNRGBA64().NRGBA64At(0, 0)
	if c.R != 0 || c.G != 0xffff || c.A != 0xffff {
		t.Errorf("clamped color: got %+v", c)
	}
}

func TestFit(t *testing.T) {
	img := New(400, 200, 4)
	proxy := img.Fit(100, 100)
	if proxy.Width != 100 || proxy.Height != 50 {
		t.Errorf("Fit: got %dx%d, want 100x50", proxy.Width, proxy.Height)
	}

	small := New(10, 10, 3)
	same := small.Fit(100, 100)
	if same.Width != 10 || same.Channels != 3 {
		t.Errorf("Fit of small image: got %dx%dx%d", same.Width, same.Height, same.Channels)
	}

	rgb := New(400, 200, 3).Fit(100, 100)
	if rgb.Channels != 3 {
		t.Errorf("Fit must keep channel count, got %d", rgb.Channels)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	res, err := New(4, 3, 4).EncodePNGBase64()
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	if res.Width != 4 || res.Height != 3 || res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("unexpected result: %+v", res)
	}
}
