// Package scenario defines the on-disk scenario directory conventions
// (spec.md §6) and atomic JSON artifact persistence.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is a scenario directory holding the pipeline's durable artifacts.
type Dir struct {
	Path string
}

// New wraps a scenario directory path.
func New(path string) *Dir {
	return &Dir{Path: path}
}

func (d *Dir) file(name string) string {
	return filepath.Join(d.Path, name)
}

// RequestsFile, EndpointsFile, TestsFile, ResultsFile and FindingsFile
// return the conventional artifact paths within the scenario directory.
func (d *Dir) RequestsFile() string  { return d.file("requests.json") }
func (d *Dir) EndpointsFile() string { return d.file("endpoints.json") }
func (d *Dir) TestsFile() string     { return d.file("tests.json") }
func (d *Dir) ResultsFile() string   { return d.file("test_results.json") }
func (d *Dir) FindingsFile() string  { return d.file("findings.json") }

// WriteJSON pretty-prints v to path, writing to a temp file in the same
// directory first and renaming into place so a reader never observes a
// partial write.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", path, err)
	}
	return WriteBytes(path, data)
}

// WriteBytes writes raw bytes atomically the same way WriteJSON does,
// for artifacts that are not themselves JSON (e.g. an OpenAPI export).
func WriteBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename artifact into place %s: %w", path, err)
	}

	return nil
}

// ReadJSON loads and decodes the artifact at path into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}
