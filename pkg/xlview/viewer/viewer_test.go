package viewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlview-go/internal/testutil"
	"github.com/ukaji3/xlview-go/pkg/xlview"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/registry"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook built from sheet name -> A1..An values.
func writeWorkbook(t *testing.T, path string, sheets map[string][]string, order ...string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		switch {
		case i == 0 && name != "Sheet1":
			require.NoError(t, f.SetSheetName("Sheet1", name))
		case i > 0:
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, v := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(name, cell, v))
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func newViewer(t *testing.T, cfg Config) *Viewer {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	if cfg.Registry == nil {
		cfg.Registry = registry.New(context.Background(), registry.NewMemoryStore(), logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	if cfg.DecodeOptions == (xlview.Options{}) {
		cfg.DecodeOptions = xlview.DefaultOptions()
	}
	v := New(cfg)
	t.Cleanup(v.Close)
	return v
}

func fileByName(t *testing.T, files []models.ExcelFile, name string) models.ExcelFile {
	t.Helper()
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("file %q not in catalog", name)
	return models.ExcelFile{}
}

func TestAddFolderRefreshesCatalog(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Reports")
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), map[string][]string{"S": {"x"}}, "S")

	v := newViewer(t, Config{})
	assert.True(t, v.AddFolder(context.Background(), dir))
	assert.False(t, v.AddFolder(context.Background(), dir))

	st := v.Snapshot()
	assert.Equal(t, []string{dir}, st.Folders)
	require.Len(t, st.Files, 1)
	assert.Equal(t, "Reports", st.Files[0].FolderName)
	assert.True(t, v.Expanded("Reports"))

	v.ToggleFolder("Reports")
	assert.False(t, v.Expanded("Reports"))
	v.ToggleFolder("Reports")
	assert.True(t, v.Expanded("Reports"))

	assert.True(t, v.RemoveFolder(context.Background(), dir))
	assert.Empty(t, v.Snapshot().Files)
}

func TestRefreshKeepsCollapsedFolders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), map[string][]string{"S": {"x"}}, "S")

	v := newViewer(t, Config{})
	v.AddFolder(context.Background(), dir)
	v.ToggleFolder("F")
	v.Refresh(context.Background())
	assert.False(t, v.Expanded("F"))
}

func TestSearchSwitchesSheets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	writeWorkbook(t, filepath.Join(dir, "book.xlsx"), map[string][]string{
		"Sheet1": {"Foo"},
		"Sheet2": {"foobar"},
	}, "Sheet1", "Sheet2")

	v := newViewer(t, Config{})
	v.AddFolder(context.Background(), dir)
	file := fileByName(t, v.Files(), "book.xlsx")
	require.NoError(t, v.SelectFile(context.Background(), file))

	st := v.Snapshot()
	require.NotNil(t, st.Workbook)
	assert.Equal(t, file.Path, st.SelectedPath)
	assert.False(t, st.Loading)
	assert.Equal(t, 0, st.ActiveSheet)

	v.SetQuery("foo")
	st = v.Snapshot()
	assert.Equal(t, 2, st.MatchCount)
	assert.Equal(t, 0, st.CurrentMatch)
	assert.Equal(t, 0, st.ActiveSheet)
	assert.True(t, v.IsCurrentMatch(0, 0, 0))
	assert.True(t, v.IsMatch(1, 0, 0))

	v.Next()
	st = v.Snapshot()
	assert.Equal(t, 1, st.CurrentMatch)
	assert.Equal(t, 1, st.ActiveSheet)
	row, ok := v.CurrentMatchRow()
	assert.True(t, ok)
	assert.Equal(t, 0, row)

	v.Next()
	assert.Equal(t, 0, v.Snapshot().ActiveSheet)

	v.Prev()
	assert.Equal(t, 1, v.Snapshot().ActiveSheet)

	// Manual tab changes stick until the next search move.
	v.SetActiveSheet(0)
	assert.Equal(t, 0, v.Snapshot().ActiveSheet)
	_, ok = v.CurrentMatchRow()
	assert.False(t, ok)

	v.SetActiveSheet(5)
	assert.Equal(t, 0, v.Snapshot().ActiveSheet)
}

func TestSelectFileResetsSearch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), map[string][]string{"S1": {"hit"}, "S2": {"hit"}}, "S1", "S2")
	writeWorkbook(t, filepath.Join(dir, "b.xlsx"), map[string][]string{"T": {"hit"}}, "T")

	v := newViewer(t, Config{})
	v.AddFolder(context.Background(), dir)
	files := v.Files()
	require.NoError(t, v.SelectFile(context.Background(), fileByName(t, files, "a.xlsx")))
	v.SetQuery("hit")
	v.Next()
	require.Equal(t, 1, v.Snapshot().ActiveSheet)

	require.NoError(t, v.SelectFile(context.Background(), fileByName(t, files, "b.xlsx")))
	st := v.Snapshot()
	assert.Empty(t, st.Query)
	assert.Zero(t, st.MatchCount)
	assert.Equal(t, 0, st.ActiveSheet)
	assert.Equal(t, []string{"T"}, st.Workbook.SheetNames())
}

func TestSelectFileDecodeError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	bad := filepath.Join(dir, "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0o644))

	v := newViewer(t, Config{})
	v.AddFolder(context.Background(), dir)
	err := v.SelectFile(context.Background(), fileByName(t, v.Files(), "bad.xlsx"))
	require.Error(t, err)
	assert.True(t, xlview.IsDecodeError(err))
	assert.ErrorIs(t, err, xlview.ErrInvalidFormat)

	st := v.Snapshot()
	assert.Nil(t, st.Workbook)
	assert.Nil(t, st.Sheet())
	assert.Equal(t, err, st.Err)
	assert.False(t, st.Loading)
}

func TestSelectFileReadError(t *testing.T) {
	v := newViewer(t, Config{})
	err := v.SelectFile(context.Background(), models.ExcelFile{Name: "gone.xlsx", Path: filepath.Join(t.TempDir(), "gone.xlsx")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, err, v.Snapshot().Err)
}

// gatedFS blocks ReadFile for one path until release is closed.
type gatedFS struct {
	catalog.OSFileSystem
	path    string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFS) ReadFile(name string) ([]byte, error) {
	if name == g.path {
		close(g.entered)
		<-g.release
	}
	return os.ReadFile(name)
}

func TestSupersededDecodeIsDiscarded(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	slow := filepath.Join(dir, "slow.xlsx")
	fast := filepath.Join(dir, "fast.xlsx")
	writeWorkbook(t, slow, map[string][]string{"Slow": {"s"}}, "Slow")
	writeWorkbook(t, fast, map[string][]string{"Fast": {"f"}}, "Fast")

	fsys := &gatedFS{path: slow, entered: make(chan struct{}), release: make(chan struct{})}
	v := newViewer(t, Config{FS: fsys})

	done := make(chan error, 1)
	go func() {
		done <- v.SelectFile(context.Background(), models.ExcelFile{Name: "slow.xlsx", Path: slow})
	}()
	<-fsys.entered

	require.NoError(t, v.SelectFile(context.Background(), models.ExcelFile{Name: "fast.xlsx", Path: fast}))
	close(fsys.release)
	require.NoError(t, <-done)

	st := v.Snapshot()
	assert.Equal(t, fast, st.SelectedPath)
	assert.Equal(t, []string{"Fast"}, st.Workbook.SheetNames())
}

func TestQueryDuringLoadFollowsNewWorkbook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	big := filepath.Join(dir, "big.xlsx")
	small := filepath.Join(dir, "small.xlsx")
	writeWorkbook(t, big, map[string][]string{"A": {"a"}, "B": {"b"}, "C": {"foo"}}, "A", "B", "C")
	writeWorkbook(t, small, map[string][]string{"Only": {"foo"}}, "Only")

	fsys := &gatedFS{path: small, entered: make(chan struct{}), release: make(chan struct{})}
	v := newViewer(t, Config{FS: fsys})
	require.NoError(t, v.SelectFile(context.Background(), models.ExcelFile{Name: "big.xlsx", Path: big}))

	done := make(chan error, 1)
	go func() {
		done <- v.SelectFile(context.Background(), models.ExcelFile{Name: "small.xlsx", Path: small})
	}()
	<-fsys.entered

	// still searching the previous workbook
	v.SetQuery("foo")
	assert.Equal(t, 2, v.Snapshot().ActiveSheet)

	close(fsys.release)
	require.NoError(t, <-done)

	st := v.Snapshot()
	assert.Equal(t, []string{"Only"}, st.Workbook.SheetNames())
	assert.Equal(t, 0, st.ActiveSheet)
	require.NotNil(t, st.Sheet())
	assert.Equal(t, 1, st.MatchCount)
	assert.True(t, v.IsCurrentMatch(0, 0, 0))
}

func TestNewWorkbookWithoutMatchesStartsOnFirstSheet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	big := filepath.Join(dir, "big.xlsx")
	small := filepath.Join(dir, "small.xlsx")
	writeWorkbook(t, big, map[string][]string{"A": {"a"}, "B": {"b"}, "C": {"foo"}}, "A", "B", "C")
	writeWorkbook(t, small, map[string][]string{"Only": {"bar"}}, "Only")

	fsys := &gatedFS{path: small, entered: make(chan struct{}), release: make(chan struct{})}
	v := newViewer(t, Config{FS: fsys})
	require.NoError(t, v.SelectFile(context.Background(), models.ExcelFile{Name: "big.xlsx", Path: big}))

	done := make(chan error, 1)
	go func() {
		done <- v.SelectFile(context.Background(), models.ExcelFile{Name: "small.xlsx", Path: small})
	}()
	<-fsys.entered
	v.SetQuery("foo")
	close(fsys.release)
	require.NoError(t, <-done)

	st := v.Snapshot()
	assert.Equal(t, 0, st.ActiveSheet)
	assert.Zero(t, st.MatchCount)
	require.NotNil(t, st.Sheet())
}

func TestClearFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "F")
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), map[string][]string{"S": {"x"}}, "S")

	v := newViewer(t, Config{})
	require.NoError(t, v.SelectFile(context.Background(), models.ExcelFile{Path: filepath.Join(dir, "a.xlsx")}))
	v.SetQuery("x")
	v.ClearFile()

	st := v.Snapshot()
	assert.Nil(t, st.Workbook)
	assert.Empty(t, st.SelectedPath)
	assert.Zero(t, st.MatchCount)
}

func TestOpenExternal(t *testing.T) {
	var opened string
	v := newViewer(t, Config{Opener: OpenerFunc(func(path string) error {
		opened = path
		return nil
	})})
	require.NoError(t, v.OpenExternal("/tmp/a.xlsx"))
	assert.Equal(t, "/tmp/a.xlsx", opened)

	failing := newViewer(t, Config{Opener: OpenerFunc(func(string) error {
		return errors.New("no handler")
	})})
	assert.Error(t, failing.OpenExternal("/tmp/a.xlsx"))
	assert.NoError(t, failing.Snapshot().Err)
}

func TestSubscribe(t *testing.T) {
	v := newViewer(t, Config{})
	var calls atomic.Int32
	unsubscribe := v.Subscribe(func() { calls.Add(1) })

	v.SetQuery("x")
	v.ToggleFolder("F")
	assert.Equal(t, int32(2), calls.Load())

	unsubscribe()
	v.SetQuery("y")
	assert.Equal(t, int32(2), calls.Load())
}

func TestWatchPicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "First")
	second := filepath.Join(root, "Second")
	require.NoError(t, os.MkdirAll(first, 0o755))
	require.NoError(t, os.MkdirAll(second, 0o755))

	v := newViewer(t, Config{})
	v.AddFolder(context.Background(), first)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Watch(ctx, 20*time.Millisecond) }()

	// A folder registered after the watcher started is watched too.
	v.AddFolder(context.Background(), second)
	target := filepath.Join(second, "new.xlsx")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("x"), 0o644)
		for _, f := range v.Files() {
			if f.Path == target {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
