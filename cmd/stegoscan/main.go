// Package main provides the entry point for the stegoscan CLI.
//
// Stegoscan is a forensic scanner for LSB steganography in images.
// It analyzes bit planes of the red, green, and blue channels, computes
// entropy and chi-square statistics, and attempts to recover hidden
// messages embedded in least significant bits.
//
// Usage:
//
//	stegoscan analyze <image>
//	stegoscan scan <directory>
//
// See --help for all available options.
package main

// main is the entry point for stegoscan.
func main() {
	Execute()
}
