package model

// Image is a decoded raster normalized to three 8-bit channels.
// The core analysis borrows this buffer read-only; decoding from file formats
// and upconversion (grayscale, palette) happen at the imgio boundary before
// the core ever sees the data.
type Image struct {
	// Width is the pixel width of the image.
	Width int

	// Height is the pixel height of the image.
	Height int

	// channels holds one matrix per color component, indexed by
	// Channel.Index(). Each matrix is Height rows of Width values in [0,255].
	channels [3][][]uint8
}

// NewImage creates an Image with zeroed channel matrices of the given size.
// Width and height must be non-negative; a zero-sized image is valid and
// yields empty bit sequences downstream.
func NewImage(width, height int) *Image {
	img := &Image{
		Width:  width,
		Height: height,
	}
	for i := range img.channels {
		rows := make([][]uint8, height)
		for y := range rows {
			rows[y] = make([]uint8, width)
		}
		img.channels[i] = rows
	}
	return img
}

// SetPixel sets the red, green, and blue components of the pixel at (x, y).
func (img *Image) SetPixel(x, y int, r, g, b uint8) {
	img.channels[ChannelRed.Index()][y][x] = r
	img.channels[ChannelGreen.Index()][y][x] = g
	img.channels[ChannelBlue.Index()][y][x] = b
}

// Matrix returns the channel matrix for the given channel.
// The returned slice aliases the image's internal buffer and must be treated
// as read-only by callers.
func (img *Image) Matrix(c Channel) [][]uint8 {
	return img.channels[c.Index()]
}

// PixelCount returns the number of pixels in the image.
func (img *Image) PixelCount() int {
	return img.Width * img.Height
}
