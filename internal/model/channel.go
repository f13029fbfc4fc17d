package model

import "fmt"

// Channel identifies one color component of an RGB pixel.
// The numeric values are part of the reporting contract: red=0, green=1,
// blue=2 match the component order of the decoded pixel buffer and determine
// which summary fields a channel's results populate.
//
// Design decision: We use an iota-based enum with an explicit mapping rather
// than a package-level name-to-index map because the mapping is part of the
// public contract and should be visible in the type system, not hidden in
// mutable module state.
type Channel int

const (
	// ChannelRed is the red component (index 0).
	ChannelRed Channel = iota

	// ChannelGreen is the green component (index 1).
	ChannelGreen

	// ChannelBlue is the blue component (index 2).
	// Blue is the conventional default for LSB embedding tools because the
	// human eye is least sensitive to blue intensity changes.
	ChannelBlue
)

// Channels lists all channels in their fixed analysis order.
// The order matters: when more than one channel decodes a plausible message,
// the first channel in this order wins.
var Channels = []Channel{ChannelRed, ChannelGreen, ChannelBlue}

// Index returns the component index of the channel within a pixel (0-2).
func (c Channel) Index() int {
	return int(c)
}

// String returns the lowercase channel name.
func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelGreen:
		return "green"
	case ChannelBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Valid reports whether the channel is one of the three defined values.
func (c Channel) Valid() bool {
	return c >= ChannelRed && c <= ChannelBlue
}

// ParseChannel converts a channel name to a Channel value.
// It accepts the lowercase names "red", "green", and "blue".
func ParseChannel(name string) (Channel, error) {
	switch name {
	case "red":
		return ChannelRed, nil
	case "green":
		return ChannelGreen, nil
	case "blue":
		return ChannelBlue, nil
	default:
		return 0, fmt.Errorf("invalid channel %q: must be red, green, or blue", name)
	}
}
