// Package imgio handles all image file I/O for stegoscan.
//
// It sits at the boundary between the filesystem and the pure analysis core:
// decoding PNG and BMP files into normalized 3-channel pixel buffers,
// discovering image files in directories for batch scans, and exporting
// bit-plane visualizations back to disk. The analysis core never touches
// file handles; it only sees the decoded model.Image this package produces.
package imgio
