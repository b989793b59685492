package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// Load reads the catalog persisted at path on fsys. A missing file yields an
// empty index.
func Load(fsys afero.Fs, path string) (*Index, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, types.IOError("reading catalog", err)
	}

	idx := New()
	if err := idx.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return idx, nil
}

// Save writes the whole catalog to path on fsys, creating parent
// directories. The file is replaced atomically.
func (idx *Index) Save(fsys afero.Fs, path string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return types.IOError("creating catalog directory", err)
	}
	return types.IOError("writing catalog", writeAtomic(fsys, path, data))
}

// writeAtomic writes data using the temp-file, fsync, rename pattern.
func writeAtomic(fsys afero.Fs, path string, data []byte) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("writing newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
