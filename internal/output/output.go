// Package output writes generated files so that readers only ever see a
// complete file: content goes to a pending temporary file in the target
// directory, which replaces the destination only once writing succeeded.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FileMode is the permission new output files are created with, before umask.
const FileMode os.FileMode = 0o644

// WriteAtomic creates parent directories, calls write with the pending file
// and replaces path with it if write returns nil. On any error path is left
// untouched and the pending file is removed.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(FileMode))
	if err != nil {
		return fmt.Errorf("creating pending file for %s: %w", path, err)
	}
	defer pf.Cleanup()

	if err := write(pf); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
