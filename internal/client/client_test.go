package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/jd/internal/catalog"
	objresolver "github.com/mesh-intelligence/jd/internal/resolver/objstore"
	"github.com/mesh-intelligence/jd/pkg/types"
)

func intPtr(v int) *int { return &v }

type env struct {
	dir  string
	data string
	cfg  types.Config
}

// newEnv returns a configuration with a disk resolver for 10..19, a remote
// repository resolver for 21 and an object store resolver for 31.
func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	return env{
		dir:  dir,
		data: data,
		cfg: types.Config{
			IndexPath: filepath.Join(dir, "index.json"),
			Resolvers: []types.ResolverConfig{
				{Range: &types.Range{From: 10, To: 19}, Disk: &types.DiskConfig{Root: data}},
				{Category: intPtr(21), GitHub: &types.GitHubConfig{Area: 20}},
				{Category: intPtr(31), ObjectStore: &types.ObjectStoreTarget{Profile: "main"}},
			},
			ObjectStore: types.ObjectStoreConfig{Dir: filepath.Join(dir, "objstore")},
		},
	}
}

func (e env) open(t *testing.T) *Client {
	t.Helper()
	c, err := New(e.cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// seed creates area 10-19 "Personal" with category 11 "Finance", area 20-29
// "Code" with category 21 "mesh-intelligence" and area 30-39 "Archive" with
// category 31 "Photos".
func seed(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.CreateArea(types.Bounds{Low: 10, High: 19}, "Personal"))
	require.NoError(t, c.CreateCategory(11, "Finance"))
	require.NoError(t, c.CreateArea(types.Bounds{Low: 20, High: 29}, "Code"))
	require.NoError(t, c.CreateCategory(21, "mesh-intelligence"))
	require.NoError(t, c.CreateArea(types.Bounds{Low: 30, High: 39}, "Archive"))
	require.NoError(t, c.CreateCategory(31, "Photos"))
}

func sourceDir(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "file.txt"), []byte(name), 0o644))
	return src
}

func loadIndex(t *testing.T, path string) *catalog.Index {
	t.Helper()
	idx, err := catalog.Load(afero.NewOsFs(), path)
	require.NoError(t, err)
	return idx
}

func TestAllocationScenarios(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	first, err := c.Allocate(11, "Taxes2023", nil)
	require.NoError(t, err)
	assert.Equal(t, "11.001", first.ID.String())

	second, err := c.Allocate(11, "Receipts", nil)
	require.NoError(t, err)
	assert.Equal(t, "11.002", second.ID.String())

	require.NoError(t, c.Remove(first.ID))
	again, err := c.Allocate(11, "Taxes2024", nil)
	require.NoError(t, err)
	assert.Equal(t, "11.001", again.ID.String())

	persisted := loadIndex(t, e.cfg.IndexPath)
	items, err := persisted.ListItems(11)
	require.NoError(t, err)
	assert.Equal(t, []types.Item{again, second}, items)
}

func TestAddFromPathAndRenameCategory(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)
	assert.Equal(t, types.Item{ID: types.ID{Category: 11, Item: 1}, Name: "taxes"}, item)

	placed := filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 taxes")
	assert.FileExists(t, filepath.Join(placed, "file.txt"))

	loc, ok, err := c.Locate(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.Path(placed), loc)

	require.NoError(t, c.RenameCategory(11, "Finances"))
	assert.DirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finances", "11.001 taxes"))
	assert.NoDirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance"))

	cat, err := loadIndex(t, e.cfg.IndexPath).Category(11)
	require.NoError(t, err)
	assert.Equal(t, "Finances", cat.Name())

	found := c.Search("tax")
	assert.ElementsMatch(t, []types.Item{item}, found)
}

func TestAddFromPathExplicitID(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "deed"), intPtr(0))
	require.NoError(t, err)
	assert.Equal(t, "11.000", item.ID.String())
	assert.DirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.000 deed"))

	_, err = c.AddFromPath(11, sourceDir(t, "other"), intPtr(0))
	assert.ErrorIs(t, err, types.ErrSlotOccupied)
}

func TestAddFromPathNoResolver(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)
	require.NoError(t, c.CreateCategory(22, "Other"))

	_, err := c.AddFromPath(22, sourceDir(t, "x"), nil)
	assert.ErrorIs(t, err, types.ErrNoResolver)
	assert.ErrorIs(t, err, types.ErrNotFound)

	items, err := c.ListItems(22)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddFromPathIsNotTransactional(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	_, err := c.AddFromPath(11, filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The allocation was persisted before the move failed.
	items, err := loadIndex(t, e.cfg.IndexPath).ListItems(11)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "missing", items[0].Name)
}

func TestAddURL(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddURL(21, "jd", "https://github.com/mesh-intelligence/jd")
	require.NoError(t, err)
	assert.Equal(t, "21.001", item.ID.String())

	loc, ok, err := c.Locate(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.URL("https://github.com/mesh-intelligence/jd"), loc)

	_, err = c.AddURL(11, "site", "https://example.com")
	assert.ErrorIs(t, err, types.ErrUnsupported)
}

func TestRelocate(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)
	require.NoError(t, c.CreateCategory(12, "Health"))

	_, err := c.Allocate(12, "placeholder", nil)
	require.NoError(t, err)
	item, err := c.AddFromPath(11, sourceDir(t, "dentist"), nil)
	require.NoError(t, err)

	moved, err := c.Relocate(item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, types.Item{ID: types.ID{Category: 12, Item: 2}, Name: "dentist"}, moved)

	assert.DirExists(t, filepath.Join(e.data, "10-19 Personal", "12 Health", "12.002 dentist"))
	assert.NoDirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 dentist"))

	idx := loadIndex(t, e.cfg.IndexPath)
	_, ok, err := idx.GetItem(item.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = idx.GetItem(moved.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelocateNotMaterialized(t *testing.T) {
	e := newEnv(t)
	core, logs := observer.New(zap.WarnLevel)
	c, err := New(e.cfg, WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer c.Close()
	seed(t, c)
	require.NoError(t, c.CreateCategory(12, "Health"))

	item, err := c.Allocate(11, "idea", nil)
	require.NoError(t, err)

	moved, err := c.Relocate(item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, "12.001", moved.ID.String())
	assert.Equal(t, 1, logs.FilterMessageSnippet("not materialized").Len())
}

func TestRelocateErrors(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	_, err := c.Relocate(types.ID{Category: 11, Item: 9}, 31)
	assert.ErrorIs(t, err, types.ErrItemNotFound)

	_, err = c.Relocate(types.ID{Category: 11, Item: 1}, 45)
	assert.ErrorIs(t, err, types.ErrNoResolver)

	_, err = c.Relocate(types.ID{Category: 11, Item: 1}, 12)
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)
}

func TestRelocateWithinSameCategory(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)

	_, err = c.Relocate(item.ID, 11)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.NotErrorIs(t, err, types.ErrConflict)

	got, ok, err := c.Index().GetItem(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, item, got)
	assert.DirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 taxes"))
}

func TestRename(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)

	renamed, err := c.Rename(item.ID, "taxes 2023")
	require.NoError(t, err)
	assert.Equal(t, types.Item{ID: item.ID, Name: "taxes 2023"}, renamed)
	assert.DirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 taxes 2023"))

	got, ok, err := loadIndex(t, e.cfg.IndexPath).GetItem(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "taxes 2023", got.Name)

	_, err = c.Rename(types.ID{Category: 11, Item: 5}, "x")
	assert.ErrorIs(t, err, types.ErrItemNotFound)
}

func TestRenameRejectsNamesTheLayoutCannotHold(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)
	itemDir := filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 taxes")

	for _, name := range []string{"2023/q1", "", "two\nlines", ".taxes"} {
		_, err := c.Rename(item.ID, name)
		assert.ErrorIs(t, err, types.ErrInvalidDirName, "%q", name)

		err = c.RenameCategory(11, name)
		assert.ErrorIs(t, err, types.ErrInvalidDirName, "%q", name)
	}

	got, ok, err := c.Index().GetItem(item.ID)
	require.NoError(t, err)
	require.True(t, ok, "rejected rename keeps the item")
	assert.Equal(t, "taxes", got.Name)
	assert.DirExists(t, itemDir)

	_, err = c.Allocate(11, "a/b", nil)
	assert.ErrorIs(t, err, types.ErrInvalidDirName)
	_, err = c.AddURL(21, "", "https://example.com")
	assert.ErrorIs(t, err, types.ErrInvalidDirName)
	assert.ErrorIs(t, c.CreateCategory(12, "x/y"), types.ErrInvalidDirName)
	assert.ErrorIs(t, c.CreateArea(types.Bounds{Low: 40, High: 49}, ""), types.ErrInvalidDirName)

	require.NoError(t, c.Rebuild())
	got, ok, err = c.Index().GetItem(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "taxes", got.Name, "rebuild round-trips the stored name")
}

func TestRenameUnsupportedBackend(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddURL(21, "jd", "https://github.com/mesh-intelligence/jd")
	require.NoError(t, err)

	_, err = c.Rename(item.ID, "jd2")
	assert.ErrorIs(t, err, types.ErrUnsupported)
	assert.ErrorIs(t, c.RenameCategory(21, "other-org"), types.ErrUnsupported)

	cat, err := c.Index().Category(21)
	require.NoError(t, err)
	assert.Equal(t, "mesh-intelligence", cat.Name(), "catalog unchanged when the backend refuses")
}

func TestRemove(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)

	require.NoError(t, c.Remove(item.ID))
	assert.NoDirExists(t, filepath.Join(e.data, "10-19 Personal", "11 Finance", "11.001 taxes"))

	// Absent ids are a no-op.
	require.NoError(t, c.Remove(item.ID))

	_, ok, err := loadIndex(t, e.cfg.IndexPath).GetItem(item.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, c.Remove(types.ID{Category: 45, Item: 1}), types.ErrAreaNotFound)
}

func TestLocate(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	_, ok, err := c.Locate(types.ID{Category: 11, Item: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.Locate(types.ID{Category: 45, Item: 1})
	assert.ErrorIs(t, err, types.ErrNoResolver)
}

func TestObjectStoreRoundTrip(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)

	item, err := c.AddFromPath(31, sourceDir(t, "holiday"), nil)
	require.NoError(t, err)

	loc, ok, err := c.Locate(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(loc.Value, "objstore://main/"), loc.Value)
	assert.FileExists(t, filepath.Join(e.dir, "objstore", "main.db"))

	require.NoError(t, c.Remove(item.ID))
	_, ok, err = c.Locate(item.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRebuild(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)
	require.NoError(t, c.CreateCategory(12, "Health"))

	taxes, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)
	dentist, err := c.AddFromPath(12, sourceDir(t, "dentist"), nil)
	require.NoError(t, err)
	photos, err := c.AddFromPath(31, sourceDir(t, "holiday"), nil)
	require.NoError(t, err)
	_, err = c.Allocate(11, "never materialized", nil)
	require.NoError(t, err)

	require.NoError(t, c.Rebuild())

	idx := loadIndex(t, e.cfg.IndexPath)
	var names []string
	for _, a := range idx.ListAreas() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Personal", "Archive"}, names, "remote repositories are not listed")

	for _, want := range []types.Item{taxes, dentist, photos} {
		got, ok, err := idx.GetItem(want.ID)
		require.NoError(t, err)
		require.True(t, ok, want.String())
		assert.Equal(t, want, got)
	}
	items, err := idx.ListItems(11)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRebuildSharedRootCollectsOnce(t *testing.T) {
	e := newEnv(t)
	e.cfg.Resolvers = []types.ResolverConfig{
		{Category: intPtr(11), Disk: &types.DiskConfig{Root: e.data}},
		{Category: intPtr(12), Disk: &types.DiskConfig{Root: e.data + "/"}},
	}
	c := e.open(t)
	require.NoError(t, c.CreateArea(types.Bounds{Low: 10, High: 19}, "Personal"))
	require.NoError(t, c.CreateCategory(11, "Finance"))
	_, err := c.AddFromPath(11, sourceDir(t, "taxes"), nil)
	require.NoError(t, err)

	require.Len(t, c.router.Resolvers(), 1)
	require.NoError(t, c.Rebuild())
}

func TestRebuildFailureKeepsCatalog(t *testing.T) {
	e := newEnv(t)
	c := e.open(t)
	seed(t, c)
	_, err := c.Allocate(11, "kept", nil)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(e.data, "not a jd area"), 0o755))
	err = c.Rebuild()
	assert.ErrorIs(t, err, types.ErrInvalidDirName)

	items, err := c.ListItems(11)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewValidatesConfig(t *testing.T) {
	e := newEnv(t)
	e.cfg.Resolvers = append(e.cfg.Resolvers, types.ResolverConfig{Category: intPtr(40)})
	_, err := New(e.cfg)
	assert.ErrorIs(t, err, types.ErrBackendMissing)

	_, err = New(types.Config{})
	assert.ErrorIs(t, err, types.ErrIndexPathEmpty)
}

func TestNewLogsOverlaps(t *testing.T) {
	e := newEnv(t)
	e.cfg.Resolvers = append(e.cfg.Resolvers,
		types.ResolverConfig{Category: intPtr(15), GitHub: &types.GitHubConfig{Area: 10}})
	core, logs := observer.New(zap.WarnLevel)
	c, err := New(e.cfg, WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 1, logs.FilterMessageSnippet("overlap").Len())

	r, ok := c.router.Find(15)
	require.True(t, ok)
	first, _ := c.router.Find(10)
	assert.Same(t, first, r, "first entry wins")
}

func TestNewStoreOpenerFailure(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("boom")
	_, err := New(e.cfg, WithStoreOpener(func(string) (objresolver.Store, error) { return nil, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestNewProfileWithoutPath(t *testing.T) {
	e := newEnv(t)
	e.cfg.ObjectStore = types.ObjectStoreConfig{}
	_, err := New(e.cfg)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)

	e.cfg.ObjectStore.Profiles = map[string]types.ProfileConfig{"main": {Path: filepath.Join(e.dir, "custom.db")}}
	c, err := New(e.cfg)
	require.NoError(t, err)
	defer c.Close()
	assert.FileExists(t, filepath.Join(e.dir, "custom.db"))
}

func TestNewCorruptIndex(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.cfg.IndexPath, []byte("{"), 0o644))
	_, err := New(e.cfg)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestClientKeepsEverythingOnItsFilesystem(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := t.TempDir()
	cfg := types.Config{
		IndexPath: filepath.Join(dir, "index.json"),
		Resolvers: []types.ResolverConfig{
			{Range: &types.Range{From: 10, To: 19}, Disk: &types.DiskConfig{Root: "/jd"}},
		},
	}
	require.NoError(t, fsys.MkdirAll("/inbox", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/inbox/taxes.pdf", []byte("pdf"), 0o644))

	c, err := New(cfg, WithFs(fsys), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.CreateArea(types.Bounds{Low: 10, High: 19}, "Personal"))
	require.NoError(t, c.CreateCategory(11, "Finance"))
	item, err := c.AddFromPath(11, "/inbox/taxes.pdf", nil)
	require.NoError(t, err)

	exists, err := afero.Exists(fsys, cfg.IndexPath)
	require.NoError(t, err)
	assert.True(t, exists, "catalog written to the injected filesystem")
	_, err = os.Stat(cfg.IndexPath)
	assert.True(t, os.IsNotExist(err), "catalog not written to the real disk")

	exists, err = afero.Exists(fsys, "/jd/10-19 Personal/11 Finance/11.001 taxes.pdf/taxes.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	reopened, err := New(cfg, WithFs(fsys))
	require.NoError(t, err)
	got, ok, err := reopened.Index().GetItem(item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, item, got)
}
