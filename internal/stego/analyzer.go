package stego

import "github.com/nao1215/stegoscan/internal/model"

// ChannelAnalyzer composes plane extraction, the statistics estimators, and
// the message decoder for a single (image, channel) pair.
//
// Design decision: The analyzer holds only the immutable decoder
// configuration, so one analyzer can be shared across channels and across
// concurrently scanned images without locking.
type ChannelAnalyzer struct {
	decoder *Decoder
}

// NewChannelAnalyzer creates an analyzer using the given heuristic bounds for
// message decoding. The bounds follow the same contract as NewDecoder.
func NewChannelAnalyzer(maxBytes int, printableRatio float64) (*ChannelAnalyzer, error) {
	decoder, err := NewDecoder(maxBytes, printableRatio)
	if err != nil {
		return nil, err
	}
	return &ChannelAnalyzer{decoder: decoder}, nil
}

// Analyze produces the full analysis of one channel matrix: a decode attempt
// on the LSB plane plus entropy and chi-square statistics for all eight
// planes.
//
// The plane-0 bit sequence is extracted once and shared by the decoder and
// the plane-0 statistics, so the two computations agree bit for bit. No
// heuristic rejection escapes as an error; the only error condition is an
// invalid channel value.
func (a *ChannelAnalyzer) Analyze(matrix [][]uint8, channel model.Channel) (model.ChannelResult, error) {
	if !channel.Valid() {
		return model.ChannelResult{}, ErrInvalidChannel
	}

	result := model.ChannelResult{
		Channel:     channel,
		ChannelText: channel.String(),
	}

	// Plane 0 feeds both the decoder and its own statistics.
	lsbBits, err := ExtractPlane(matrix, 0)
	if err != nil {
		return model.ChannelResult{}, err
	}

	outcome := a.decoder.Decode(lsbBits)
	result.MessageFound = outcome.Found
	result.Message = outcome.Message
	if !outcome.Found {
		result.RejectReason = outcome.Reason.String()
	}

	for plane := 0; plane < model.PlaneCount; plane++ {
		bits := lsbBits
		if plane > 0 {
			bits, err = ExtractPlane(matrix, plane)
			if err != nil {
				return model.ChannelResult{}, err
			}
		}
		result.PlaneStats[plane] = model.PlaneStats{
			Plane:   plane,
			Entropy: Entropy(bits),
			Chi2:    ChiSquare(bits),
		}
	}

	result.ComputeDerived()
	return result, nil
}
