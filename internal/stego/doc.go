// Package stego implements the core LSB steganalysis algorithms.
//
// The package provides three building blocks and the analyzer that composes
// them:
//   - ExtractPlane: pulls one bit plane out of a channel matrix
//   - Entropy / ChiSquare: score a bit sequence for statistical anomalies
//   - Decoder: recovers a length-prefixed message from an LSB bit sequence
//   - ChannelAnalyzer: runs all of the above for one (image, channel) pair
//
// All computation here is synchronous, deterministic, and side-effect-free:
// no component retains mutable state across calls other than immutable
// configuration. Heuristic rejections (no message found) are normal outcomes,
// never errors; only programmer errors such as an out-of-range plane index
// are reported as errors.
package stego
