// Package config provides configuration structures and utilities for
// stegoscan. It defines the main options for single-image analysis, batch
// directory scanning, and report generation preferences.
package config
