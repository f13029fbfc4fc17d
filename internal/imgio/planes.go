package imgio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/stegoscan/internal/model"
	"github.com/nao1215/stegoscan/internal/stego"
)

// BitPlaneDir returns the directory where bit-plane visualizations of the
// given image file are written: "<stem>_bit_planes" next to the input.
func BitPlaneDir(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+"_bit_planes")
}

// SaveBitPlanes renders all eight bit planes of one channel as grayscale PNG
// files in outDir, creating the directory if needed. Each plane image maps
// set bits to white (255) and clear bits to black, which makes embedded
// patterns visible to the eye.
//
// It returns the paths of the written files in plane order.
func SaveBitPlanes(img *model.Image, channel model.Channel, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	matrix := img.Matrix(channel)
	paths := make([]string, 0, model.PlaneCount)

	for plane := 0; plane < model.PlaneCount; plane++ {
		view, err := stego.PlaneImage(matrix, plane)
		if err != nil {
			return nil, err
		}

		gray := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		for y, row := range view {
			for x, v := range row {
				gray.SetGray(x, y, color.Gray{Y: v})
			}
		}

		path := filepath.Join(outDir, fmt.Sprintf("plane_%d.png", plane))
		if err := writePNG(path, gray); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// writePNG encodes a grayscale image to a PNG file.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // output path derives from user input
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
