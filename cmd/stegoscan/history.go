package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/stegoscan/internal/config"
	"github.com/nao1215/stegoscan/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many recent scans the history command shows
// when no limit is given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists scan results stored in the database by previous runs.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [image-path]",
		Short: "Show past scan results from the database",
		Long: `History lists scan results saved by previous 'scan' and 'analyze' runs.

Without arguments it shows the most recent scans across all images.
With an image path it shows every stored scan of that image, which makes
it possible to see when a file started carrying a hidden message.

Examples:
  # Show the most recent scans
  stegoscan history

  # Show more entries
  stegoscan history -n 50

  # Show all stored scans of one image
  stegoscan history /data/images/photo.png

  # List every image path with stored scans
  stegoscan history --list-paths

  # Dump a stored report as JSON by its ID
  stegoscan history --show-id 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of entries to show")
	cmd.Flags().BoolP("list-paths", "l", false,
		"List all image paths with stored scans")
	cmd.Flags().Int64P("show-id", "i", 0,
		"Print the full stored report with this ID as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listPaths, err := cmd.Flags().GetBool("list-paths")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show-id")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	// Open without creating: an empty history should not leave a database
	// file behind.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		fmt.Println("No scan history found.")
		fmt.Println("\nUse 'stegoscan scan <directory>' to scan images first.")
		return nil
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case showID != 0:
		return showStoredReport(ctx, db, showID)
	case listPaths:
		return listScannedPaths(ctx, db)
	case len(args) == 1:
		return showPathHistory(ctx, db, args[0])
	default:
		return showRecentScans(ctx, db, limit)
	}
}

// showRecentScans prints the most recent scans across all images.
func showRecentScans(ctx context.Context, db *database.ScanDB, limit int) error {
	entries, err := db.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list recent scans: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No scan history found.")
		fmt.Println("\nUse 'stegoscan scan <directory>' to scan images first.")
		return nil
	}

	fmt.Printf("Recent scans (%d):\n\n", len(entries))
	printHistoryTable(entries)
	fmt.Println("\nUse 'stegoscan history --show-id <id>' to see a full report.")

	return nil
}

// showPathHistory prints all stored scans of one image path.
func showPathHistory(ctx context.Context, db *database.ScanDB, path string) error {
	entries, err := db.GetScanHistory(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No scan history found for %s\n", path)
		fmt.Println("\nUse 'stegoscan analyze' to scan this image.")
		return nil
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", path, len(entries))
	printHistoryTable(entries)

	return nil
}

// printHistoryTable prints metadata entries in a fixed-width table.
func printHistoryTable(entries []database.ScanReportMetadata) {
	fmt.Printf("  %-6s  %-20s  %-30s  %s\n", "ID", "Date", "File", "Result")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, meta := range entries {
		result := "clean"
		switch {
		case meta.Error != "":
			result = "error: " + meta.Error
		case meta.MessageFound:
			result = fmt.Sprintf("message found (%s)", meta.Channel)
		}

		fmt.Printf("  %-6d  %-20s  %-30s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			truncateName(meta.Filename, 30),
			result,
		)
	}
}

// listScannedPaths lists all image paths that have scan records.
func listScannedPaths(ctx context.Context, db *database.ScanDB) error {
	paths, err := db.ListScannedPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list paths: %w", err)
	}

	if len(paths) == 0 {
		fmt.Println("No scanned images found in the database.")
		return nil
	}

	fmt.Printf("Scanned images (%d):\n\n", len(paths))
	for _, path := range paths {
		fmt.Printf("  • %s\n", path)
	}
	fmt.Println("\nUse 'stegoscan history <path>' to see scan history for an image.")

	return nil
}

// showStoredReport dumps a stored report as indented JSON.
func showStoredReport(ctx context.Context, db *database.ScanDB, id int64) error {
	stored, err := db.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if stored == nil {
		return fmt.Errorf("no stored report with id %d", id)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	fmt.Println(string(data))

	return nil
}

// truncateName cuts a filename for fixed-width table display.
func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
