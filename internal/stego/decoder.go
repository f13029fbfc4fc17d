package stego

import (
	"strings"
	"unicode/utf8"
)

// headerBits is the size of the big-endian length prefix in bits.
const headerBits = 32

// RejectReason identifies why message decoding terminated without a message.
// Every rejection path of the decoder maps to exactly one reason, making the
// decision procedure testable branch by branch.
type RejectReason int

const (
	// RejectNone means decoding did not reject: a message was found.
	RejectNone RejectReason = iota

	// RejectTooFewBits means the sequence is shorter than the 32-bit
	// length header.
	RejectTooFewBits

	// RejectInvalidLength means the decoded length header was zero or
	// exceeded the configured maximum. This is a heuristic gate that
	// discards random-noise LSBs decoding to implausible lengths.
	RejectInvalidLength

	// RejectTruncatedPayload means the sequence ends before the declared
	// payload length.
	RejectTruncatedPayload

	// RejectEmptyPayload means the payload decoded to an empty string.
	RejectEmptyPayload

	// RejectLowPrintableRatio means too few decoded characters fall in the
	// printable ASCII range to look like real text.
	RejectLowPrintableRatio
)

// String returns a human-readable description of the rejection reason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectTooFewBits:
		return "too few bits for length header"
	case RejectInvalidLength:
		return "implausible length header"
	case RejectTruncatedPayload:
		return "truncated payload"
	case RejectEmptyPayload:
		return "empty payload"
	case RejectLowPrintableRatio:
		return "insufficient printable characters"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a decode attempt.
// Either a message was found, or Reason records which gate rejected the
// sequence. Rejection is an expected, frequent outcome and never an error.
type Outcome struct {
	// Found is true if a plausible message was decoded.
	Found bool

	// Message is the decoded message when Found is true.
	Message string

	// Reason is the rejection reason when Found is false.
	Reason RejectReason
}

// noMessage builds a rejection outcome.
func noMessage(reason RejectReason) Outcome {
	return Outcome{Found: false, Reason: reason}
}

// Decoder recovers a length-prefixed message from an LSB bit sequence.
// The wire format is a 32-bit big-endian byte length followed by the payload
// bytes, both packed MSB-first into the least significant bits of consecutive
// pixels.
//
// A Decoder is immutable after construction and safe for concurrent use.
type Decoder struct {
	// maxBytes is the largest payload length accepted by the length gate.
	maxBytes int

	// printableRatio is the minimum fraction of decoded characters that must
	// fall in the printable ASCII range [32,126].
	printableRatio float64
}

// NewDecoder creates a Decoder with the given heuristic bounds.
// maxBytes must be positive and printableRatio must be in (0,1]; out-of-range
// values are contract violations and rejected eagerly rather than clamped.
func NewDecoder(maxBytes int, printableRatio float64) (*Decoder, error) {
	if maxBytes <= 0 {
		return nil, ErrInvalidMaxBytes
	}
	if printableRatio <= 0 || printableRatio > 1 {
		return nil, ErrInvalidPrintableRatio
	}
	return &Decoder{
		maxBytes:       maxBytes,
		printableRatio: printableRatio,
	}, nil
}

// Decode runs the decoding state machine over the LSB bit sequence of one
// channel. It is a pure, single-pass decision procedure: malformed input
// never panics or errors, every rejection path returns a tagged outcome.
func (d *Decoder) Decode(bits []uint8) Outcome {
	// Not even enough bits for the length header.
	if len(bits) < headerBits {
		return noMessage(RejectTooFewBits)
	}

	// First 32 bits are the payload byte length, big-endian.
	length := int(bitsToUint32(bits[:headerBits]))
	if length <= 0 || length > d.maxBytes {
		return noMessage(RejectInvalidLength)
	}

	// The payload must fit in the remaining bits.
	required := headerBits + length*8
	if len(bits) < required {
		return noMessage(RejectTruncatedPayload)
	}

	payload := packBits(bits[headerBits:required])

	// Lossy UTF-8 decode: invalid byte runs are dropped, never raised.
	msg := decodeLossyUTF8(payload)
	if msg == "" {
		return noMessage(RejectEmptyPayload)
	}

	if printableFraction(msg) < d.printableRatio {
		return noMessage(RejectLowPrintableRatio)
	}

	return Outcome{Found: true, Message: msg, Reason: RejectNone}
}

// bitsToUint32 packs exactly 32 bits, MSB first, into an unsigned integer.
func bitsToUint32(bits []uint8) uint32 {
	var v uint32
	for _, b := range bits {
		v = v<<1 | uint32(b)
	}
	return v
}

// packBits packs a bit sequence into bytes, 8 bits at a time, MSB first.
// The input length must be a multiple of 8.
func packBits(bits []uint8) []byte {
	out := make([]byte, len(bits)/8)
	for i, b := range bits {
		out[i/8] = out[i/8]<<1 | b
	}
	return out
}

// decodeLossyUTF8 converts bytes to a string, dropping invalid UTF-8
// sequences instead of failing. Any byte run is decodable under this policy.
func decodeLossyUTF8(data []byte) string {
	var sb strings.Builder
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		sb.WriteRune(r)
		data = data[size:]
	}
	return sb.String()
}

// printableFraction returns the fraction of characters whose code point lies
// in the printable ASCII range [32,126].
func printableFraction(s string) float64 {
	var printable, total int
	for _, r := range s {
		total++
		if r >= 32 && r <= 126 {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}
