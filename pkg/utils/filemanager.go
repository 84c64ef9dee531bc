// =============================================================================
// Uruguay Card Payments - File Manager Utility
// =============================================================================
//
// This module provides the small set of file operations the pipeline needs:
//   - Creating the output directories
//   - Checking that the input file is present
//   - Reporting the size of written outputs
//
// Outputs are always written in place and overwritten on every run; nothing
// is archived or renamed.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager owns the pipeline's output directories.
type FileManager struct {
	// ProcessedDir receives the derived CSV tables.
	ProcessedDir string

	// FiguresDir receives the PNG charts.
	FiguresDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(processedDir, figuresDir string) *FileManager {
	return &FileManager{
		ProcessedDir: processedDir,
		FiguresDir:   figuresDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all output directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.ProcessedDir, fm.FiguresDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
