package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// WriteFileAtomic writes data to path through a uniquely named temp
// file in the same directory plus a rename, so a concurrent reader
// never observes a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move temp file into place at %s: %w", path, err)
	}
	return nil
}

// GenerateThumbnail creates a thumbnail with a UUID filename
// returns the filename of the saved thumbnail
func GenerateThumbnail(originalImagePath, thumbnailDir string, maxWidth, maxHeight int) (string, error) {
	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory %s: %w", thumbnailDir, err)
	}

	img, err := imaging.Open(originalImagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalImagePath, err)
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	thumbFilename := uuid.NewString() + ".jpg"
	thumbnailSavePath := filepath.Join(thumbnailDir, thumbFilename)

	err = imaging.Save(thumb, thumbnailSavePath, imaging.JPEGQuality(80))
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail to %s: %w", thumbnailSavePath, err)
	}

	log.Printf("generated thumbnail for %s at %s", originalImagePath, thumbnailSavePath)
	return thumbFilename, nil
}
