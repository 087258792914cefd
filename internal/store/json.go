package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/ridestats/internal/model"
)

// JSONFile keeps the provider response verbatim as a JSON array on disk.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by the JSON array at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the cache file location.
func (s *JSONFile) Path() string {
	return s.path
}

// Load reads and validates the cached activities.
func (s *JSONFile) Load(_ context.Context) ([]model.Activity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no cache at %s", ErrDataUnavailable, s.path)
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode cache %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: cache %s is empty", ErrDataUnavailable, s.path)
	}
	activities, rejected := ParseRecords(records)
	logRejected(s.path, rejected)
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: no valid activities in %s", ErrDataUnavailable, s.path)
	}
	return activities, nil
}

// Replace overwrites the cache with records.
func (s *JSONFile) Replace(_ context.Context, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), "activities-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to move cache into place: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONFile) Close() error {
	return nil
}
