// Package jsonfile persists a single JSON document per table. Writes go to a
// temporary file in the same directory which is then renamed over the target,
// so a reader never observes a partially written document.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

// Load decodes the document at path into v. A missing or empty file leaves v
// untouched and reports found=false. A file that cannot be decoded yields an
// error wrapping ErrCorruptState.
func Load(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "[jsonfile.Load] read %s", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return false, apperrors.Wrapf(apperrors.ErrCorruptState, "[jsonfile.Load] %s: %v", path, err)
	}
	return true, nil
}

// Save replaces the document at path with v.
func Save(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "[jsonfile.Save] create directory")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[jsonfile.Save] encode")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "[jsonfile.Save] create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "[jsonfile.Save] write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "[jsonfile.Save] sync temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "[jsonfile.Save] close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "[jsonfile.Save] rename to %s", path)
	}
	return nil
}
