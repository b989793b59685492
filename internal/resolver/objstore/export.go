package objstore

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	store "github.com/mesh-intelligence/jd/internal/objstore"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Export downloads the tree of item into dir/<item directory name>,
// replacing any earlier export of the same item.
func (r *Resolver) Export(item types.Item, dir string) (string, bool, error) {
	root, ok, err := r.root(item.ID)
	if err != nil || !ok {
		return "", false, err
	}
	target := filepath.Join(dir, filepath.Base(root.Meta.Name))
	if err := r.fs.RemoveAll(target); err != nil {
		return "", false, types.IOError("clearing "+target, err)
	}
	if err := r.fs.MkdirAll(target, 0o755); err != nil {
		return "", false, types.IOError("creating "+target, err)
	}

	blobs, err := r.store.Query(store.Query{Fields: map[string]string{MetaParentID: item.ID.String()}})
	if err != nil {
		return "", false, err
	}

	// Parents are placed before their children; repeat until every blob
	// has found its directory.
	paths := map[string]string{root.ID: target}
	for len(blobs) > 0 {
		var rest []store.Blob
		for _, b := range blobs {
			parent, ok := paths[b.Meta.Parent]
			if !ok {
				rest = append(rest, b)
				continue
			}
			p := filepath.Join(parent, filepath.Base(b.Meta.Name))
			if err := r.exportBlob(b, p); err != nil {
				return "", false, err
			}
			paths[b.ID] = p
		}
		if len(rest) == len(blobs) {
			return "", false, fmt.Errorf("%w: %d blobs of %s have no parent", types.ErrNotFound, len(rest), item.ID)
		}
		blobs = rest
	}

	r.log.Debug("exported item", zap.String("item", item.String()), zap.String("path", target), zap.Int("blobs", len(paths)))
	return target, true, nil
}

func (r *Resolver) exportBlob(b store.Blob, p string) error {
	if b.Meta.Kind == store.KindDirectory {
		if err := r.fs.MkdirAll(p, 0o755); err != nil {
			return types.IOError("creating "+p, err)
		}
		return nil
	}
	data, err := r.store.Content(b.ID)
	if err != nil {
		return err
	}
	f, err := r.fs.Create(p)
	if err != nil {
		return types.IOError("creating "+p, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return types.IOError("writing "+p, err)
	}
	return types.IOError("closing "+p, f.Close())
}
