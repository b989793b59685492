package disk

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Scan builds a fresh index from the tree at root. It fails on the first
// entry that does not follow the naming convention.
func Scan(fsys afero.Fs, root string) (*catalog.Index, error) {
	idx := catalog.New()
	if err := collect(fsys, filepath.Clean(root), idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// collect adds the areas, categories and items found under root to idx.
// Hidden entries are skipped at every level. Plain files are only allowed
// inside item directories.
func collect(fsys afero.Fs, root string, idx *catalog.Index) error {
	areas, err := dirs(fsys, root)
	if err != nil {
		return err
	}
	for _, a := range areas {
		bounds, name, err := layout.ParseAreaName(a)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Join(root, a), err)
		}
		if _, err := idx.EnsureArea(bounds, name); err != nil {
			return err
		}
		if err := collectArea(fsys, filepath.Join(root, a), bounds, idx); err != nil {
			return err
		}
	}
	return nil
}

func collectArea(fsys afero.Fs, dir string, bounds types.Bounds, idx *catalog.Index) error {
	cats, err := dirs(fsys, dir)
	if err != nil {
		return err
	}
	for _, c := range cats {
		id, name, err := layout.ParseCategoryName(c, bounds)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Join(dir, c), err)
		}
		if _, err := idx.EnsureCategory(id, name); err != nil {
			return err
		}
		if err := collectCategory(fsys, filepath.Join(dir, c), id, idx); err != nil {
			return err
		}
	}
	return nil
}

func collectCategory(fsys afero.Fs, dir string, categoryID int, idx *catalog.Index) error {
	items, err := dirs(fsys, dir)
	if err != nil {
		return err
	}
	for _, i := range items {
		item, err := layout.ParseItemName(i, categoryID)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Join(dir, i), err)
		}
		if err := idx.ImportItem(item); err != nil {
			return fmt.Errorf("%s: %w", filepath.Join(dir, i), err)
		}
	}
	return nil
}

// dirs lists the visible subdirectory names of dir in lexical order. A
// visible plain file is a structural error.
func dirs(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, types.IOError("reading "+dir, err)
	}
	var out []string
	for _, e := range entries {
		if layout.IsHidden(e.Name()) {
			continue
		}
		if !e.IsDir() {
			return nil, fmt.Errorf("%w: unexpected file %s", types.ErrInvalidDirName, filepath.Join(dir, e.Name()))
		}
		out = append(out, e.Name())
	}
	return out, nil
}
