package imgio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// DiscoverImages walks a directory tree and returns the paths of all files
// whose extension matches one of the given extensions (case-insensitive,
// including the leading dot, e.g. ".png").
//
// Unreadable subdirectories are skipped rather than aborting the walk; a
// batch scan should analyze what it can reach. The returned paths are in
// lexical order so batch results are deterministic.
func DiscoverImages(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var paths []string
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if wanted[strings.ToLower(filepath.Ext(osPathname))] {
				paths = append(paths, osPathname)
			}
			return nil
		},
		ErrorCallback: func(_ string, _ error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	return paths, nil
}
