// Package skyfilter isolates sky regions in photographs (tuned for
// Monarch Butterfly field photos) by thresholding pixels in HSV space
// and whitening the matched region while leaving everything else alone.
package skyfilter

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Thresholds is the HSV band a pixel must fall inside to count as sky.
// All bounds are normalized to [0,1]; hue comparisons use hue/360 so the
// band wraps the same way the value and saturation bands do. The hue and
// saturation comparisons are strict on both sides, value only has a
// lower bound.
type Thresholds struct {
	// Excludes warm hues (reds, oranges, yellows).
	HueMin float64
	// Excludes violet/magenta extremes.
	HueMax float64
	// Excludes near-gray, washed-out pixels.
	SatMin float64
	// Excludes heavily saturated non-sky colors.
	SatMax float64
	// Excludes near-black pixels. Changes little in practice but keeps
	// dark foliage out of the mask.
	ValMin float64
}

// DefaultThresholds returns the band tuned on monarch photo sets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HueMin: 0.45,
		HueMax: 0.75,
		SatMin: 0.20,
		SatMax: 0.90,
		ValMin: 0.25,
	}
}

// Validate rejects bands that cannot classify anything sensibly.
func (t Thresholds) Validate() error {
	bounds := []struct {
		name string
		v    float64
	}{
		{"hue-min", t.HueMin},
		{"hue-max", t.HueMax},
		{"sat-min", t.SatMin},
		{"sat-max", t.SatMax},
		{"val-min", t.ValMin},
	}
	for _, b := range bounds {
		if b.v < 0 || b.v > 1 {
			return fmt.Errorf("threshold %s = %v outside [0,1]", b.name, b.v)
		}
	}
	if t.HueMin >= t.HueMax {
		return fmt.Errorf("hue band inverted: min %v >= max %v", t.HueMin, t.HueMax)
	}
	if t.SatMin >= t.SatMax {
		return fmt.Errorf("saturation band inverted: min %v >= max %v", t.SatMin, t.SatMax)
	}
	return nil
}

// ErrEmptyImage is returned for nil inputs or images with no pixels.
var ErrEmptyImage = errors.New("skyfilter: empty image")

type rgb32 struct {
	W, H int
	Pix  []float32 // Interleaved RGB in [0,255], len = W*H*3
}

type hsv32 struct {
	W, H int
	Pix  []float32 // Interleaved HSV, each channel in [0,1], len = W*H*3
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

func maskOffset(w, x, y int) int {
	return y*w + x
}

// Filter holds one image's derived planes: the original RGB samples, the
// HSV plane, and the boolean sky mask. Planes are built once in New and
// never written afterwards, so a Filter is safe for concurrent reads.
type Filter struct {
	InputImage image.Image
	Band       Thresholds
	Rgb        rgb32
	Hsv        hsv32
	Mask       []bool // len = W*H, true iff the pixel is classified sky
}

// New validates the input and precomputes the RGB plane, the HSV plane
// and the sky mask. The input image is only read, never written.
func New(img image.Image, band Thresholds) (*Filter, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	if err := band.Validate(); err != nil {
		return nil, fmt.Errorf("skyfilter: %w", err)
	}
	f := &Filter{
		InputImage: img,
		Band:       band,
	}
	f.makeRGB32Image()
	f.makeHSV32FromRGB32()
	f.makeMask()
	return f, nil
}

func (f *Filter) makeRGB32Image() {
	bounds := f.InputImage.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()
	f.Rgb = rgb32{
		W:   w,
		H:   h,
		Pix: make([]float32, h*w*3),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := f.InputImage.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			f.Rgb.Pix[off] = float32(r >> 8)
			f.Rgb.Pix[off+1] = float32(g >> 8)
			f.Rgb.Pix[off+2] = float32(b >> 8)
		}
	}
}

// ============ RGB → HSV ============

func (f *Filter) makeHSV32FromRGB32() {
	h := f.Rgb.H
	w := f.Rgb.W
	f.Hsv = hsv32{
		W:   w,
		H:   h,
		Pix: make([]float32, h*w*3),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := pixOffset(w, x, y)
			c := colorful.Color{
				R: float64(f.Rgb.Pix[off]) / 255.0,
				G: float64(f.Rgb.Pix[off+1]) / 255.0,
				B: float64(f.Rgb.Pix[off+2]) / 255.0,
			}
			hue, sat, val := c.Hsv()
			f.Hsv.Pix[off] = float32(hue / 360.0)
			f.Hsv.Pix[off+1] = float32(sat)
			f.Hsv.Pix[off+2] = float32(val)
		}
	}
}

// ============ MASK ============

// A pixel is sky iff all five range predicates hold. No single predicate
// decides membership on its own.
func (f *Filter) makeMask() {
	h := f.Hsv.H
	w := f.Hsv.W
	f.Mask = make([]bool, h*w)
	band := f.Band
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := pixOffset(w, x, y)
			hue := float64(f.Hsv.Pix[off])
			sat := float64(f.Hsv.Pix[off+1])
			val := float64(f.Hsv.Pix[off+2])
			f.Mask[maskOffset(w, x, y)] = hue > band.HueMin &&
				hue < band.HueMax &&
				sat > band.SatMin &&
				sat < band.SatMax &&
				val > band.ValMin
		}
	}
}

// SkyOnly returns an image where sky pixels keep their original RGB
// values and every other pixel is forced to black. Note a sky pixel that
// was already pure black comes out indistinguishable from non-sky;
// with 8-bit input the value predicate makes that combination
// unreachable, but callers feeding synthetic planes inherit it.
func (f *Filter) SkyOnly() *image.RGBA {
	w, h := f.Rgb.W, f.Rgb.H
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !f.Mask[maskOffset(w, x, y)] {
				out.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
				continue
			}
			off := pixOffset(w, x, y)
			out.SetRGBA(x, y, color.RGBA{
				uint8(f.Rgb.Pix[off]),
				uint8(f.Rgb.Pix[off+1]),
				uint8(f.Rgb.Pix[off+2]),
				255,
			})
		}
	}
	return out
}

// Whiten returns a copy of the original image with every pixel that
// survives SkyOnly with at least one non-zero channel rewritten to pure
// white. The input image is left untouched.
func (f *Filter) Whiten() *image.RGBA {
	w, h := f.Rgb.W, f.Rgb.H
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := pixOffset(w, x, y)
			r := uint8(f.Rgb.Pix[off])
			g := uint8(f.Rgb.Pix[off+1])
			b := uint8(f.Rgb.Pix[off+2])
			if f.Mask[maskOffset(w, x, y)] && (r != 0 || g != 0 || b != 0) {
				r, g, b = 255, 255, 255
			}
			out.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return out
}

// SkyMask returns the boolean mask as an 8-bit mask image: 255 for sky,
// 0 for everything else.
func (f *Filter) SkyMask() *image.Gray {
	w, h := f.Rgb.W, f.Rgb.H
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if f.Mask[maskOffset(w, x, y)] {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// ClassifySky masks everything but the sky with the default thresholds.
func ClassifySky(img image.Image) (*image.RGBA, error) {
	f, err := New(img, DefaultThresholds())
	if err != nil {
		return nil, err
	}
	return f.SkyOnly(), nil
}

// WhitenSky turns the sky of img white with the default thresholds.
func WhitenSky(img image.Image) (*image.RGBA, error) {
	f, err := New(img, DefaultThresholds())
	if err != nil {
		return nil, err
	}
	return f.Whiten(), nil
}
