package skyfilter

import (
	"image"
	"image/color"
)

// RGBChannels splits the input into three grayscale images, one per RGB
// channel, in R, G, B order.
func (f *Filter) RGBChannels() []*image.Gray {
	w, h := f.Rgb.W, f.Rgb.H
	out := make([]*image.Gray, 3)
	for ch := 0; ch < 3; ch++ {
		layer := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				layer.SetGray(x, y, color.Gray{Y: uint8(f.Rgb.Pix[pixOffset(w, x, y)+ch])})
			}
		}
		out[ch] = layer
	}
	return out
}

// HSVChannels splits the HSV plane into three grayscale images in H, S,
// V order, each channel stretched from [0,1] to the full 8-bit range.
// Handy for eyeballing where a threshold band lands on a new photo set.
func (f *Filter) HSVChannels() []*image.Gray {
	w, h := f.Hsv.W, f.Hsv.H
	out := make([]*image.Gray, 3)
	for ch := 0; ch < 3; ch++ {
		layer := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := f.Hsv.Pix[pixOffset(w, x, y)+ch]
				if v < 0 {
					v = 0
				}
				if v > 1 {
					v = 1
				}
				layer.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
			}
		}
		out[ch] = layer
	}
	return out
}
