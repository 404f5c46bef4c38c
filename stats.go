package skyfilter

import (
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the detected sky region.
type Stats struct {
	SkyPixels int
	Coverage  float64 // sky pixels / total pixels
	MeanHSV   [3]float64
	StdHSV    [3]float64
}

// Stats computes sky coverage and per-channel HSV mean/stddev over the
// sky pixels. Mean and stddev are zero when nothing was classified sky.
func (f *Filter) Stats() Stats {
	w, h := f.Hsv.W, f.Hsv.H
	total := w * h

	n := 0
	for _, sky := range f.Mask {
		if sky {
			n++
		}
	}
	s := Stats{
		SkyPixels: n,
		Coverage:  float64(n) / float64(total),
	}
	if n == 0 {
		return s
	}

	samples := [3][]float64{}
	for ch := 0; ch < 3; ch++ {
		samples[ch] = make([]float64, 0, n)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !f.Mask[maskOffset(w, x, y)] {
				continue
			}
			off := pixOffset(w, x, y)
			for ch := 0; ch < 3; ch++ {
				samples[ch] = append(samples[ch], float64(f.Hsv.Pix[off+ch]))
			}
		}
	}
	for ch := 0; ch < 3; ch++ {
		mean, std := stat.MeanStdDev(samples[ch], nil)
		if math.IsNaN(std) { // single-sample region
			std = 0
		}
		s.MeanHSV[ch] = mean
		s.StdHSV[ch] = std
	}
	return s
}

// DominantSkyColor returns the dominant color of the masked sky region.
// Near-black candidates are skipped since black is the mask fill, not
// sky. The second return is false when no sky was detected.
func (f *Filter) DominantSkyColor() (colorful.Color, bool) {
	skyOnly := f.SkyOnly()
	candidates := dominantcolor.FindWeight(skyOnly, 16)
	for _, c := range candidates {
		if isNearBlack(c.RGBA) {
			continue
		}
		col, _ := colorful.MakeColor(c.RGBA)
		return col.Clamped(), true
	}
	return colorful.Color{}, false
}

func isNearBlack(c color.RGBA) bool {
	return c.R < 16 && c.G < 16 && c.B < 16
}

// Keeps kmeans tractable on large photos; matches the subsampling cap
// used for palette extraction in utils.
const maxClusterSamples = 12000

// SuggestThresholds tightens the current band around the dominant
// k-means cluster of the sky pixels' HSV samples: the dominant cluster's
// center ± two standard deviations per channel, clamped to [0,1] and
// never looser than the current band. Useful as a starting point when
// retuning for a new photo set. Returns false when the image has too few
// sky pixels to cluster.
func (f *Filter) SuggestThresholds(k int) (Thresholds, bool) {
	if k <= 0 {
		return Thresholds{}, false
	}
	w, h := f.Hsv.W, f.Hsv.H

	n := 0
	for _, sky := range f.Mask {
		if sky {
			n++
		}
	}
	if n < k {
		return Thresholds{}, false
	}

	step := 1
	if n > maxClusterSamples {
		step = n/maxClusterSamples + 1
	}
	dataset := make(clusters.Observations, 0, min(n, maxClusterSamples))
	seen := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !f.Mask[maskOffset(w, x, y)] {
				continue
			}
			seen++
			if (seen-1)%step != 0 {
				continue
			}
			off := pixOffset(w, x, y)
			dataset = append(dataset, clusters.Coordinates{
				float64(f.Hsv.Pix[off]),
				float64(f.Hsv.Pix[off+1]),
				float64(f.Hsv.Pix[off+2]),
			})
		}
	}
	if len(dataset) < k {
		return Thresholds{}, false
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return Thresholds{}, false
	}

	best := 0
	for i := range cc {
		if len(cc[i].Observations) > len(cc[best].Observations) {
			best = i
		}
	}
	center := cc[best].Center
	if len(center) < 3 {
		return Thresholds{}, false
	}

	var std [3]float64
	for ch := 0; ch < 3; ch++ {
		vals := make([]float64, 0, len(cc[best].Observations))
		for _, obs := range cc[best].Observations {
			coords := obs.Coordinates()
			if len(coords) < 3 {
				continue
			}
			vals = append(vals, coords[ch])
		}
		_, sd := stat.MeanStdDev(vals, nil)
		if math.IsNaN(sd) {
			sd = 0
		}
		std[ch] = sd
	}

	band := Thresholds{
		HueMin: max(f.Band.HueMin, clamp01(center[0]-2*std[0])),
		HueMax: min(f.Band.HueMax, clamp01(center[0]+2*std[0])),
		SatMin: max(f.Band.SatMin, clamp01(center[1]-2*std[1])),
		SatMax: min(f.Band.SatMax, clamp01(center[1]+2*std[1])),
		ValMin: max(f.Band.ValMin, clamp01(center[2]-2*std[2])),
	}
	if band.Validate() != nil {
		return Thresholds{}, false
	}
	return band, true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
