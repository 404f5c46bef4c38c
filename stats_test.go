package skyfilter

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// halfSkyImage has skyBlue in the top half and red in the bottom half.
func halfSkyImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.RGBA{255, 0, 0, 255}
		if y < h/2 {
			c = skyBlue
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// variedSkyImage fills the frame with blues spread across the default
// band: hue 200-215°, saturation 0.4-0.6, value 0.7-0.95.
func variedSkyImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) / float64(w-1)
			fy := float64(y) / float64(h-1)
			c := colorful.Hsv(200+15*fx, 0.4+0.2*fy, 0.7+0.25*fx)
			r, g, b := c.RGB255()
			img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}

func TestStatsHalfSky(t *testing.T) {
	f, err := New(halfSkyImage(8, 4), DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := f.Stats()
	if s.SkyPixels != 16 {
		t.Errorf("SkyPixels = %d, want 16", s.SkyPixels)
	}
	if s.Coverage != 0.5 {
		t.Errorf("Coverage = %v, want 0.5", s.Coverage)
	}
	wantMean := [3]float64{0.58, 0.50, 0.90}
	for ch := 0; ch < 3; ch++ {
		if math.Abs(s.MeanHSV[ch]-wantMean[ch]) > 0.02 {
			t.Errorf("MeanHSV[%d] = %v, want ≈%v", ch, s.MeanHSV[ch], wantMean[ch])
		}
		if s.StdHSV[ch] > 1e-6 {
			t.Errorf("StdHSV[%d] = %v, want 0 for a uniform sky", ch, s.StdHSV[ch])
		}
	}
}

func TestStatsNoSky(t *testing.T) {
	f, err := New(uniformImage(6, 6, color.RGBA{255, 0, 0, 255}), DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := f.Stats()
	if s.SkyPixels != 0 || s.Coverage != 0 {
		t.Errorf("got %d sky pixels, coverage %v; want none", s.SkyPixels, s.Coverage)
	}
	for ch := 0; ch < 3; ch++ {
		if s.MeanHSV[ch] != 0 || s.StdHSV[ch] != 0 {
			t.Errorf("channel %d stats non-zero with no sky", ch)
		}
	}
}

func TestDominantSkyColor(t *testing.T) {
	f, err := New(halfSkyImage(64, 64), DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dom, ok := f.DominantSkyColor()
	if !ok {
		t.Fatal("no dominant sky color found")
	}
	if dom.B <= dom.R {
		t.Errorf("dominant sky color %s is not bluish", dom.Hex())
	}
}

func TestDominantSkyColorNoSky(t *testing.T) {
	f, err := New(uniformImage(32, 32, color.RGBA{255, 0, 0, 255}), DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := f.DominantSkyColor(); ok {
		t.Error("dominant color reported for an image with no sky")
	}
}

func TestSuggestThresholds(t *testing.T) {
	def := DefaultThresholds()
	f, err := New(variedSkyImage(48, 48), def)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	band, ok := f.SuggestThresholds(2)
	if !ok {
		t.Fatal("no band suggested for an all-sky image")
	}
	if err := band.Validate(); err != nil {
		t.Fatalf("suggested band invalid: %v", err)
	}
	// A suggestion only ever tightens the current band.
	if band.HueMin < def.HueMin || band.HueMax > def.HueMax {
		t.Errorf("hue band (%v, %v) looser than default", band.HueMin, band.HueMax)
	}
	if band.SatMin < def.SatMin || band.SatMax > def.SatMax {
		t.Errorf("saturation band (%v, %v) looser than default", band.SatMin, band.SatMax)
	}
	if band.ValMin < def.ValMin {
		t.Errorf("value bound %v looser than default", band.ValMin)
	}
}

func TestSuggestThresholdsNoSky(t *testing.T) {
	f, err := New(uniformImage(16, 16, color.RGBA{255, 0, 0, 255}), DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := f.SuggestThresholds(3); ok {
		t.Error("band suggested for an image with no sky")
	}
	if _, ok := f.SuggestThresholds(0); ok {
		t.Error("band suggested for k = 0")
	}
}
