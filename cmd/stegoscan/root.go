// Package main provides the entry point for the stegoscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for stegoscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stegoscan",
		Short: "LSB steganography detector for images",
		Long: `Stegoscan detects LSB steganography in PNG and BMP images.
It extracts the bit planes of each color channel, computes Shannon entropy
and chi-square statistics, and attempts to decode hidden messages embedded
in least significant bits.

Use 'analyze' for a single image with detailed statistics, or 'scan' to
sweep a directory of images.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
