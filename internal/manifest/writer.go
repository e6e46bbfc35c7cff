// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer writes manifest lines for a single organization.
type Writer struct {
	output *bufio.Writer
	org    string
	count  int
}

// NewWriter creates a manifest writer on top of w. Call Flush when done.
func NewWriter(w io.Writer, org string) *Writer {
	return &Writer{
		output: bufio.NewWriter(w),
		org:    org,
	}
}

// Write appends one newline-terminated line for e.
func (w *Writer) Write(e Entry) error {
	if _, err := w.output.WriteString(e.Line(w.org) + "\n"); err != nil {
		return fmt.Errorf("failed to write manifest line: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of lines written.
func (w *Writer) Count() int {
	return w.count
}

// Flush pushes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.output.Flush(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return nil
}

// Encode writes all entries to w in the given order.
func Encode(w io.Writer, org string, entries []Entry) error {
	mw := NewWriter(w, org)
	for _, e := range entries {
		if err := mw.Write(e); err != nil {
			return err
		}
	}
	return mw.Flush()
}

// WriteFile replaces the file at path with the manifest for entries by
// writing a temporary sibling file and renaming it over path.
func WriteFile(path, org string, entries []Entry) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, org, entries); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	// CreateTemp uses 0600; manifests are meant to be shared.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set manifest permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace manifest %s: %w", path, err)
	}
	return nil
}
