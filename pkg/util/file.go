package util

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never see a partial file
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Keep the permissions of an existing file
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Cleanup temp file on error
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Sync to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}

	success = true
	return nil
}

// GenerateUniqueID generates a unique ID for snapshots
// Format: YYYYMMDD-HHMMSS-mmm-RRRR
// Where mmm = milliseconds, RRRR = random hex suffix
func GenerateUniqueID() string {
	now := time.Now()
	timestamp := now.Format("20060102-150405")
	ms := now.UnixMilli() % 1000

	randBytes := make([]byte, 2)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Sprintf("%s-%03d-fallback", timestamp, ms)
	}

	return fmt.Sprintf("%s-%03d-%x", timestamp, ms, randBytes)
}

// CheckDiskSpace checks if at least requiredMB is available under path
func CheckDiskSpace(path string, requiredMB uint64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return fmt.Errorf("failed to check disk space: %w", err)
	}

	availableMB := stat.Bavail * uint64(stat.Bsize) / (1024 * 1024)

	if availableMB < requiredMB {
		return fmt.Errorf("insufficient disk space: %d MB available, %d MB required", availableMB, requiredMB)
	}

	return nil
}
