// Package render turns display arrays into images and linecut profiles into
// plots for offline export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"saxslinecut/internal/models"
)

// ToGray16 maps img linearly onto 16-bit gray, finite minimum to black and
// finite maximum to white. NaN pixels are black; a constant image is black.
func ToGray16(img models.Image) *image.Gray16 {
	rows, cols := img.Rows(), img.Cols()
	out := image.NewGray16(image.Rect(0, 0, cols, rows))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range img {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo
	if !(span > 0) {
		return out
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols && x < len(img[y]); x++ {
			v := img[y][x]
			if math.IsNaN(v) {
				continue
			}
			value := uint16(math.Max(0, math.Min(65535, (v-lo)/span*65535)))
			out.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return out
}

// ScaleImage resizes img to newWidth, preserving the aspect ratio
func ScaleImage(img image.Image, newWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || newWidth <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	w := newWidth
	h := int(math.Round(float64(bounds.Dy()) / float64(bounds.Dx()) * float64(w)))
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, bounds, draw.Over, nil)
	return dst
}

// SaveImage writes img as PNG or JPEG depending on the file extension
func SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Encode(file, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(filename))
	}
}

// ParseColor parses #rgb or #rrggbb. Anything else is an error.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
