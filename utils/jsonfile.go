package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadJSON reads the document at path into out. A missing, unreadable or
// corrupt file leaves out untouched and returns false; callers start from
// empty state in that case.
func LoadJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SaveJSON overwrites the document at path with v, going through a temp file
// and rename so an interrupted write never truncates the previous document.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
