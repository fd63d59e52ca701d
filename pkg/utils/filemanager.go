// =============================================================================
// Medição Jurídica - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for generated artifacts:
//   - Output file naming from a format string
//   - Saving artifacts to the output directory
//   - Archival of a previous export that a new one would overwrite
//   - Retention cleanup of the archive directory
//
// ARCHIVAL STRATEGY:
//   - A new export never silently overwrites an older one: the older file is
//     moved to the archive directory with a timestamp suffix first
//   - Archived files older than the retention period can be removed
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles artifact files on disk.
type FileManager struct {
	// OutputDir is the directory where exported artifacts are written.
	OutputDir string

	// ArchiveDir receives files that a new export would overwrite.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2026/10/19/Medições_M-01.xlsx
	UseTimestampSubdirs bool

	// now is overridable in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		now:        time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
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
// SAVING
// =============================================================================

// Save writes data as fileName in the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - The path the previous file was archived to, or "" if there was none.
//   - An error if writing or archival fails.
func (fm *FileManager) Save(fileName string, data []byte) (string, string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", "", err
	}

	outputPath := filepath.Join(fm.OutputDir, filepath.Base(fileName))

	var archived string
	if FileExists(outputPath) && fm.ArchiveDir != "" {
		var err error
		archived, err = fm.archive(outputPath)
		if err != nil {
			return "", "", err
		}
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", archived, fmt.Errorf("failed to write file: %w", err)
	}

	return outputPath, archived, nil
}

// archive moves filePath into the archive directory.
func (fm *FileManager) archive(filePath string) (string, error) {
	archivePath := fm.getArchivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath builds "<archive>/<name>_<timestamp><ext>".
func (fm *FileManager) getArchivePath(filePath string) string {
	now := fm.now()
	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filepath.Base(filePath), ext)
	fileName := fmt.Sprintf("%s_%s%s", base, now.Format("20060102_150405"), ext)

	dir := fm.ArchiveDir
	if fm.UseTimestampSubdirs {
		dir = filepath.Join(
			dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	return filepath.Join(dir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds a file name from a format string.
//
// PARAMETERS:
//   - format: The format string. Placeholders:
//       {uuid}        - A random UUID
//       {timestamp}   - Current timestamp (YYYYMMDD_HHMMSS)
//       {date}        - Current date (YYYYMMDD)
//       any key of params, e.g. {measurement}
//   - ext: The extension to enforce, e.g. ".xlsx".
//   - params: Custom placeholder values.
//
// An empty custom value makes the name fall back to "{timestamp}" in its
// place, so a billing without a measurement number still gets a unique name.
//
// EXAMPLE:
//   format: "Medições_{measurement}"
//   params: {"measurement": "M-2026/10"}
//   output: "Medições_M-2026-10.xlsx"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()
	timestamp := now.Format("20060102_150405")

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": timestamp,
		"{date}":      now.Format("20060102"),
	}

	for key, value := range params {
		value = SanitizeFileName(value)
		if value == "" {
			value = timestamp
		}
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// SanitizeFileName replaces characters that are not allowed in file names.
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "", "\"", "", "<", "", ">", "", "|", "-",
	)
	return strings.TrimSpace(replacer.Replace(name))
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldArchives removes archive files older than maxAge.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	if archiveDir == "" || maxAge <= 0 || !FileExists(archiveDir) {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}
