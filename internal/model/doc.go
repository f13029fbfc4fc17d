// Package model defines the core data structures used throughout stegoscan.
//
// This package contains the following main types:
//   - Channel: An enumerated RGB color channel with its component index
//   - Image: A decoded raster normalized to three 8-bit channel matrices
//   - ChannelResult: Per-channel message decoding and bit-plane statistics
//   - ImageScanReport: The complete analysis result for one image
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (stego, pipeline, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
