package imgio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// Register the supported decoders. BMP support comes from golang.org/x/image
	// because the standard library only ships PNG/JPEG/GIF.
	_ "golang.org/x/image/bmp"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nao1215/stegoscan/internal/model"
)

// ErrImageTooLarge is returned when an image exceeds the configured
// megapixel limit. The limit exists to bound memory use; one decoded
// channel matrix costs one byte per pixel per channel.
var ErrImageTooLarge = errors.New("image exceeds megapixel limit")

// Loader decodes image files into normalized 3-channel pixel buffers.
type Loader struct {
	// maxMegapixels is the largest accepted image size in megapixels.
	// Zero disables the limit.
	maxMegapixels int
}

// NewLoader creates a Loader with the given megapixel limit.
func NewLoader(maxMegapixels int) *Loader {
	return &Loader{maxMegapixels: maxMegapixels}
}

// Load opens and decodes an image file into a model.Image.
func (l *Loader) Load(path string) (*model.Image, error) {
	f, err := os.Open(path) //nolint:gosec // scanning user-provided paths is the point
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	img, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes image data into a model.Image.
// Grayscale and palette images are upconverted to RGB; all pixel values are
// normalized to 8-bit components in [0,255].
func (l *Loader) Decode(r io.Reader) (*model.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if l.maxMegapixels > 0 {
		if width*height > l.maxMegapixels*1_000_000 {
			return nil, fmt.Errorf("%w: %dx%d exceeds %dMP",
				ErrImageTooLarge, width, height, l.maxMegapixels)
		}
	}

	img := model.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns 16-bit components; keep the high byte.
			r16, g16, b16, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			img.SetPixel(x, y, uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
		}
	}
	return img, nil
}
