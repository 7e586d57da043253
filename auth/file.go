package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSource reads session cookies from a JSON file written by SaveCookies,
// a simple name-to-value mapping.
type FileSource struct {
	path string
}

// NewFileSource creates a cookie source backed by a JSON cookie file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Cookies returns the cookies stored in the file, or nil if the file does
// not exist.
func (s *FileSource) Cookies(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil //nolint:nilnil // missing cookie file is not an error
		}
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", s.path, err)
	}
	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // empty cookie file is not an error
	}
	return cookies, nil
}

// SaveCookies persists a cookie map to a JSON file so later runs can reuse
// the session without logging in again.
func SaveCookies(path string, cookies map[string]string) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create cookie dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return nil
}
