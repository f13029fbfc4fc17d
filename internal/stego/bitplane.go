package stego

import "github.com/nao1215/stegoscan/internal/model"

// ExtractPlane extracts the bit at the given plane index from every value of
// a channel matrix, in row-major order. The result has one entry per pixel,
// each exactly 0 or 1.
//
// A plane index outside [0,7] is a contract violation and returns
// ErrInvalidPlane. An empty matrix yields an empty sequence; callers must
// handle zero-length sequences explicitly rather than dividing by the count.
func ExtractPlane(matrix [][]uint8, plane int) ([]uint8, error) {
	if plane < 0 || plane >= model.PlaneCount {
		return nil, ErrInvalidPlane
	}

	var total int
	for _, row := range matrix {
		total += len(row)
	}

	bits := make([]uint8, 0, total)
	for _, row := range matrix {
		for _, v := range row {
			bits = append(bits, (v>>plane)&1)
		}
	}
	return bits, nil
}

// PlaneImage renders one bit plane of a channel matrix as a 2-D byte matrix
// with values 0 or 255, suitable for export as a grayscale image. Hidden
// patterns embedded in a plane become visible when viewed this way.
//
// The plane index follows the same [0,7] contract as ExtractPlane.
func PlaneImage(matrix [][]uint8, plane int) ([][]uint8, error) {
	if plane < 0 || plane >= model.PlaneCount {
		return nil, ErrInvalidPlane
	}

	out := make([][]uint8, len(matrix))
	for y, row := range matrix {
		out[y] = make([]uint8, len(row))
		for x, v := range row {
			out[y][x] = ((v >> plane) & 1) * 255
		}
	}
	return out, nil
}
