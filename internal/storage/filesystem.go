package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brandpulse/citation-service/internal/model"
)

// ResponseArchive stores the raw text each provider returned, one file per
// invocation: {baseDir}/{runID}/{platform}.txt. The database keeps metadata
// only — full response bodies can be large and are rarely read back, so they
// live on disk where they're cheap.
type ResponseArchive struct {
	baseDir string
}

// NewResponseArchive creates the archive, ensuring the base directory exists.
// MkdirAll creates the directory and all parents (like mkdir -p).
func NewResponseArchive(baseDir string) (*ResponseArchive, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &ResponseArchive{baseDir: baseDir}, nil
}

// ResponsePath returns the filesystem path for one archived response.
func (a *ResponseArchive) ResponsePath(runID string, p model.Platform) string {
	return filepath.Join(a.baseDir, runID, string(p)+".txt")
}

// RunDir returns the directory holding one run's responses.
func (a *ResponseArchive) RunDir(runID string) string {
	return filepath.Join(a.baseDir, runID)
}

// Write saves a raw provider response, creating the run directory if needed.
func (a *ResponseArchive) Write(runID string, p model.Platform, response string) error {
	if err := os.MkdirAll(a.RunDir(runID), 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	path := a.ResponsePath(runID, p)
	// 0644: owner rw, group r, others r — standard for non-executable files.
	if err := os.WriteFile(path, []byte(response), 0644); err != nil {
		return fmt.Errorf("writing archived response: %w", err)
	}
	return nil
}

// Read returns one archived response.
func (a *ResponseArchive) Read(runID string, p model.Platform) (string, error) {
	data, err := os.ReadFile(a.ResponsePath(runID, p))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("archived response %s/%s: %w", runID, p, ErrNotFound)
		}
		return "", fmt.Errorf("reading archived response: %w", err)
	}
	return string(data), nil
}

// Exists checks whether a response was archived for this run and platform.
func (a *ResponseArchive) Exists(runID string, p model.Platform) bool {
	_, err := os.Stat(a.ResponsePath(runID, p))
	return err == nil
}

// DeleteRun removes all archived responses for a run.
func (a *ResponseArchive) DeleteRun(runID string) error {
	return os.RemoveAll(a.RunDir(runID))
}
