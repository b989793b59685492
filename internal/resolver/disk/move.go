package disk

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// move renames src to dst. When the rename fails, for example across
// devices, the tree is copied and the source removed.
func move(fsys afero.Fs, src, dst string) error {
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(fsys, src, dst); err != nil {
		return types.IOError("copying "+src, err)
	}
	if err := fsys.RemoveAll(src); err != nil {
		return types.IOError("removing "+src, err)
	}
	return nil
}

func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return copyFile(fsys, p, target, info.Mode().Perm())
	})
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
