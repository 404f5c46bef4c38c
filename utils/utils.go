// Package utils holds the image I/O collaborators around the core
// filter: decoding, encoding and directory traversal.
package utils

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEG quality for saved photos. Monarch sets are photographic, so
// anything above ~90 is visually lossless.
const jpegQuality = 92

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImagePath reports whether the path has a decodable image extension.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ListImages returns the image files directly inside dir, sorted the way
// the OS lists them. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImagePath(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// ReadImage decodes a single image file. JPEG and PNG decode natively;
// BMP, TIFF and WebP come from the x/image decoders registered above.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img to filename, choosing JPEG or PNG from the
// extension. Unknown extensions fall back to PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return png.Encode(f, img)
	}
}

// SaveGrayImages writes each grayscale layer as prefix_0N.png in dir.
func SaveGrayImages(images []*image.Gray, dir, prefix string) error {
	for i := range images {
		name := filepath.Join(dir, prefix+"_0"+strconv.Itoa(i)+".png")
		if err := SaveImage(images[i], name); err != nil {
			return err
		}
	}
	return nil
}
