package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preprocess decodes an image, converts it to grayscale, binarizes it with
// an Otsu threshold and returns the result as PNG.
func Preprocess(r io.Reader) ([]byte, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	gray := Grayscale(img)
	Binarize(gray, OtsuThreshold(Histogram(gray)))

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encoding %s image as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Grayscale converts img to 8-bit gray.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// Histogram counts pixels per gray level.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}
	return hist
}

// OtsuThreshold returns the gray level that maximizes the between-class
// variance of hist. Pixels at or below it are the dark class (ink on a
// light page); Binarize turns the pixels above it white.
func OtsuThreshold(hist [256]int) uint8 {
	var total int
	var sum float64
	for level, n := range hist {
		total += n
		sum += float64(level * n)
	}
	if total == 0 {
		return 0
	}

	var (
		sumB    float64
		weightB int
		best    float64
		thresh  int
	)
	for level, n := range hist {
		weightB += n
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}

		sumB += float64(level * n)
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)

		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			thresh = level
		}
	}
	return uint8(thresh)
}

// Binarize sets pixels above threshold to white and the rest to black.
func Binarize(img *image.Gray, threshold uint8) {
	for i, v := range img.Pix {
		if v > threshold {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 0
		}
	}
}
