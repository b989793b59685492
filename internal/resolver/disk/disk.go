// Package disk materializes catalog items as directories under a local root:
// <root>/<LL-HH area>/<CC category>/<CC.III item>.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/internal/resolver"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Resolver is a directory tree rooted at a local path.
type Resolver struct {
	fs   afero.Fs
	root string
	log  *zap.Logger
}

var _ resolver.Resolver = (*Resolver)(nil)

// New returns a resolver for the tree at root on fs. A nil logger disables
// logging.
func New(fsys afero.Fs, root string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		fs:   fsys,
		root: filepath.Clean(root),
		log:  log.With(zap.String("resolver", "disk"), zap.String("root", root)),
	}
}

func (r *Resolver) categoryDir(categoryID int, idx *catalog.Index) (string, error) {
	area, err := idx.AreaForCategory(categoryID)
	if err != nil {
		return "", err
	}
	cat, err := idx.Category(categoryID)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.root,
		layout.AreaName(area.Bounds(), area.Name()),
		layout.CategoryName(cat.ID(), cat.Name())), nil
}

func (r *Resolver) itemDir(item types.Item, idx *catalog.Index) (string, error) {
	dir, err := r.categoryDir(item.ID.Category, idx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, layout.ItemName(item)), nil
}

// Get returns the item directory when it exists.
func (r *Resolver) Get(item types.Item, idx *catalog.Index) (types.Location, bool, error) {
	p, err := r.itemDir(item, idx)
	if err != nil {
		return types.Location{}, false, err
	}
	ok, err := afero.Exists(r.fs, p)
	if err != nil {
		return types.Location{}, false, types.IOError("stat item", err)
	}
	if !ok {
		return types.Location{}, false, nil
	}
	return types.Path(p), true, nil
}

// Set moves the content at src into the item directory, creating missing
// parents. A directory source becomes the item directory; a file source is
// placed inside a new item directory.
func (r *Resolver) Set(item types.Item, src types.Location, idx *catalog.Index) error {
	if !src.IsPath() {
		return fmt.Errorf("%w: disk resolver cannot store url %s", types.ErrUnsupported, src)
	}
	dst, err := r.itemDir(item, idx)
	if err != nil {
		return err
	}
	info, err := r.fs.Stat(src.Value)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: source %s", types.ErrNotFound, src.Value)
	}
	if err != nil {
		return types.IOError("stat source", err)
	}
	if err := r.checkFree(dst); err != nil {
		return err
	}

	r.log.Debug("moving item", zap.String("item", item.String()), zap.String("src", src.Value), zap.String("dst", dst))
	if info.IsDir() {
		if err := r.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return types.IOError("creating category directory", err)
		}
		return move(r.fs, src.Value, dst)
	}
	if err := r.fs.MkdirAll(dst, 0o755); err != nil {
		return types.IOError("creating item directory", err)
	}
	return move(r.fs, src.Value, filepath.Join(dst, filepath.Base(src.Value)))
}

func (r *Resolver) checkFree(p string) error {
	ok, err := afero.Exists(r.fs, p)
	if err != nil {
		return types.IOError("stat target", err)
	}
	if ok {
		return fmt.Errorf("%w: %s", types.ErrTargetExists, p)
	}
	return nil
}

// Remove deletes the item directory and everything in it.
func (r *Resolver) Remove(item types.Item, idx *catalog.Index) error {
	p, err := r.itemDir(item, idx)
	if err != nil {
		return err
	}
	r.log.Debug("removing item", zap.String("item", item.String()), zap.String("path", p))
	if err := r.fs.RemoveAll(p); err != nil {
		return types.IOError("removing item", err)
	}
	return nil
}

// Collect walks the tree and adds what it finds to idx. Areas and
// categories already in idx are reused. A missing root contributes nothing.
func (r *Resolver) Collect(idx *catalog.Index) error {
	ok, err := afero.DirExists(r.fs, r.root)
	if err != nil {
		return types.IOError("stat root", err)
	}
	if !ok {
		r.log.Debug("root missing, nothing to collect")
		return nil
	}
	return collect(r.fs, r.root, idx)
}

// RenameCategory renames the category directory. A category that has no
// directory yet is left alone.
func (r *Resolver) RenameCategory(categoryID int, newName string, idx *catalog.Index) error {
	oldDir, err := r.categoryDir(categoryID, idx)
	if err != nil {
		return err
	}
	newDir := filepath.Join(filepath.Dir(oldDir), layout.CategoryName(categoryID, newName))
	return r.rename(oldDir, newDir)
}

// RenameItem moves the directory of oldItem to the path of newItem.
func (r *Resolver) RenameItem(oldItem, newItem types.Item, idx *catalog.Index) error {
	oldDir, err := r.itemDir(oldItem, idx)
	if err != nil {
		return err
	}
	newDir, err := r.itemDir(newItem, idx)
	if err != nil {
		return err
	}
	return r.rename(oldDir, newDir)
}

func (r *Resolver) rename(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	ok, err := afero.Exists(r.fs, oldPath)
	if err != nil {
		return types.IOError("stat source", err)
	}
	if !ok {
		r.log.Debug("nothing to rename", zap.String("path", oldPath))
		return nil
	}
	if err := r.checkFree(newPath); err != nil {
		return err
	}
	if err := r.fs.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return types.IOError("creating parent directory", err)
	}
	r.log.Debug("renaming", zap.String("from", oldPath), zap.String("to", newPath))
	return move(r.fs, oldPath, newPath)
}
