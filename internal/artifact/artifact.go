// Package artifact provides shared I/O for the flat-file certificate
// artifacts: create-parent file writes, indented JSON encoding, full-file
// SHA-256 digests, and CSV row counting.
//
// Each pipeline stage owns its output files exclusively; this package only
// standardizes how they are written and fingerprinted.
package artifact

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Create opens path for writing, creating parent directories as needed.
func Create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating artifact directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating artifact %s: %w", path, err)
	}
	return f, nil
}

// WriteJSON writes v as two-space-indented JSON, creating parent
// directories as needed.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	f, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// FileSHA256 returns the hex SHA-256 digest of the file at path. The digest
// binds the summary to an exact artifact version.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CSVRowCount returns the number of data rows in a CSV file, excluding the
// header.
func CSVRowCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	count := 0
	for {
		if _, err := r.Read(); err == io.EOF {
			break
		} else if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		count++
	}
	if count > 0 {
		count--
	}
	return count, nil
}
