// README: Filesystem backend; one JSON file per document, replaced via rename.
package infra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreIO, name, err)
	}
	return data, nil
}

// Write stages data in a temp file next to the target and renames it over
// the target once it is fully flushed.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStoreIO, b.dir, err)
	}
	tmp, err := os.CreateTemp(b.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrStoreIO, name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: write %s: %v", ErrStoreIO, name, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", ErrStoreIO, name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrStoreIO, name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(b.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrStoreIO, name, err)
	}
	return nil
}
