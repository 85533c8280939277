// Package viewer holds the state of one viewing session: the registered
// folders, the file catalog, the open workbook, the active sheet and the
// search over it. Every mutation notifies subscribers.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ukaji3/xlview-go/pkg/xlview"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/registry"
	"github.com/ukaji3/xlview-go/pkg/xlview/search"
)

// Config wires a Viewer to its collaborators.
type Config struct {
	Registry      *registry.Registry
	Catalog       *catalog.Catalog
	FS            catalog.FileSystem
	Opener        Opener
	DecodeOptions xlview.Options
	Logger        *slog.Logger
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	Folders      []string
	Files        []models.ExcelFile
	Expanded     map[string]bool
	SelectedPath string
	Workbook     *models.ParsedWorkbook
	Loading      bool
	Err          error
	ActiveSheet  int
	Query        string
	MatchCount   int
	CurrentMatch int
}

// Sheet returns the active sheet, or nil when no workbook is open.
func (s State) Sheet() *models.SheetData {
	if s.Workbook == nil || s.ActiveSheet >= len(s.Workbook.Sheets) {
		return nil
	}
	return &s.Workbook.Sheets[s.ActiveSheet]
}

// Viewer is safe for concurrent use.
type Viewer struct {
	registry *registry.Registry
	catalog  *catalog.Catalog
	fsys     catalog.FileSystem
	opener   Opener
	opts     xlview.Options
	logger   *slog.Logger

	mu          sync.Mutex
	files       []models.ExcelFile
	expanded    map[string]bool
	selected    string
	workbook    *models.ParsedWorkbook
	loading     bool
	err         error
	activeSheet int
	engine      *search.Engine
	decodeSeq   uint64
	refreshSeq  uint64

	subsMu sync.Mutex
	subs   map[int]func()
	nextID int

	unsubscribe func()
}

// New creates a viewer. Registry changes trigger a catalog refresh.
func New(cfg Config) *Viewer {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.FS == nil {
		cfg.FS = catalog.OSFileSystem{}
	}
	if cfg.Opener == nil {
		cfg.Opener = SystemOpener{}
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.New(cfg.FS, catalog.Options{}, cfg.Logger)
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.New(context.Background(), registry.NewMemoryStore(), cfg.Logger)
	}

	v := &Viewer{
		registry: cfg.Registry,
		catalog:  cfg.Catalog,
		fsys:     cfg.FS,
		opener:   cfg.Opener,
		opts:     cfg.DecodeOptions,
		logger:   cfg.Logger,
		expanded: make(map[string]bool),
		engine:   search.New(),
		subs:     make(map[int]func()),
	}
	v.unsubscribe = v.registry.Subscribe(func([]string) {
		v.Refresh(context.Background())
	})
	return v
}

// Close detaches the viewer from the registry.
func (v *Viewer) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}

// Subscribe registers fn to be called after every state change.
func (v *Viewer) Subscribe(fn func()) (unsubscribe func()) {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	return func() {
		v.subsMu.Lock()
		defer v.subsMu.Unlock()
		delete(v.subs, id)
	}
}

func (v *Viewer) notify() {
	v.subsMu.Lock()
	fns := slices.Collect(maps.Values(v.subs))
	v.subsMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Folders returns the registered folders.
func (v *Viewer) Folders() []string { return v.registry.Paths() }

// AddFolder registers a folder; the catalog refreshes if the list changed.
func (v *Viewer) AddFolder(ctx context.Context, path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return v.registry.Add(ctx, path)
}

// RemoveFolder unregisters a folder; the catalog refreshes if the list changed.
func (v *Viewer) RemoveFolder(ctx context.Context, path string) bool {
	return v.registry.Remove(ctx, path)
}

// Refresh rescans the registered folders. When refreshes overlap, the most
// recently started one is published.
func (v *Viewer) Refresh(ctx context.Context) []models.ExcelFile {
	v.mu.Lock()
	v.refreshSeq++
	seq := v.refreshSeq
	v.mu.Unlock()

	files := v.catalog.Scan(ctx, v.registry.Paths())

	v.mu.Lock()
	if seq != v.refreshSeq {
		v.mu.Unlock()
		v.logger.Debug("discarding superseded catalog refresh")
		return files
	}
	v.files = files
	for _, f := range files {
		if _, ok := v.expanded[f.FolderName]; !ok {
			v.expanded[f.FolderName] = true
		}
	}
	v.mu.Unlock()

	v.notify()
	return files
}

// Watch keeps the catalog fresh until ctx is cancelled, restarting the folder
// watcher whenever the registered folders change.
func (v *Viewer) Watch(ctx context.Context, debounce time.Duration) error {
	changed := make(chan struct{}, 1)
	unsubscribe := v.registry.Subscribe(func([]string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		wctx, cancel := context.WithCancel(ctx)
		errc := make(chan error, 1)
		folders := v.registry.Paths()
		go func() {
			errc <- v.catalog.Watch(wctx, folders, debounce, func() { v.Refresh(ctx) })
		}()

		select {
		case <-ctx.Done():
			cancel()
			<-errc
			return nil
		case <-changed:
			cancel()
			if err := <-errc; err != nil {
				return err
			}
			v.logger.Debug("restarting folder watcher", "folders", len(v.registry.Paths()))
		case err := <-errc:
			cancel()
			return err
		}
	}
}

// Files returns the current catalog.
func (v *Viewer) Files() []models.ExcelFile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.files)
}

// ToggleFolder flips the expanded flag of a folder group.
func (v *Viewer) ToggleFolder(folder string) {
	v.mu.Lock()
	v.expanded[folder] = !v.expanded[folder]
	v.mu.Unlock()
	v.notify()
}

// Expanded reports whether a folder group is expanded. Unknown folders are expanded.
func (v *Viewer) Expanded(folder string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.expanded[folder]
	return !ok || e
}

// SelectFile reads and decodes file, replacing the open workbook. The query is
// cleared and the first sheet activated. If another selection starts before
// this one finishes, this result is discarded. The returned error is also kept
// in the state for display.
func (v *Viewer) SelectFile(ctx context.Context, file models.ExcelFile) error {
	v.mu.Lock()
	v.decodeSeq++
	seq := v.decodeSeq
	v.selected = file.Path
	v.activeSheet = 0
	v.loading = true
	v.err = nil
	v.engine.SetQuery("")
	v.mu.Unlock()
	v.notify()

	wb, err := v.load(ctx, file)

	v.mu.Lock()
	if seq != v.decodeSeq {
		v.mu.Unlock()
		v.logger.Debug("discarding superseded decode", "path", file.Path)
		return err
	}
	v.loading = false
	v.workbook = wb
	v.err = err
	v.engine.SetWorkbook(wb)
	// a query typed while loading may have moved the sheet within the old workbook
	if cur, ok := v.engine.Current(); ok {
		v.activeSheet = cur.SheetIndex
	} else {
		v.activeSheet = 0
	}
	v.mu.Unlock()

	if err != nil {
		v.logger.Error("failed to open workbook", "path", file.Path, "error", err)
	} else {
		v.logger.Info("workbook opened", "path", file.Path, "sheets", len(wb.Sheets))
	}
	v.notify()
	return err
}

func (v *Viewer) load(ctx context.Context, file models.ExcelFile) (*models.ParsedWorkbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := v.fsys.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Path, err)
	}
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	return xlview.Decode(data, name, v.opts)
}

// ClearFile closes the open workbook and clears the search.
func (v *Viewer) ClearFile() {
	v.mu.Lock()
	v.decodeSeq++
	v.selected = ""
	v.workbook = nil
	v.err = nil
	v.loading = false
	v.activeSheet = 0
	v.engine.SetQuery("")
	v.engine.SetWorkbook(nil)
	v.mu.Unlock()
	v.notify()
}

// SetActiveSheet shows sheet i. Out-of-range indexes are ignored.
func (v *Viewer) SetActiveSheet(i int) {
	v.mu.Lock()
	if v.workbook == nil || i < 0 || i >= len(v.workbook.Sheets) || i == v.activeSheet {
		v.mu.Unlock()
		return
	}
	v.activeSheet = i
	v.mu.Unlock()
	v.notify()
}

// SetQuery replaces the search query.
func (v *Viewer) SetQuery(q string) {
	v.searchOp(func(e *search.Engine) { e.SetQuery(q) })
}

// Next moves to the next match, switching sheets when needed.
func (v *Viewer) Next() {
	v.searchOp((*search.Engine).GoToNext)
}

// Prev moves to the previous match, switching sheets when needed.
func (v *Viewer) Prev() {
	v.searchOp((*search.Engine).GoToPrev)
}

func (v *Viewer) searchOp(op func(*search.Engine)) {
	v.mu.Lock()
	op(v.engine)
	if cur, ok := v.engine.Current(); ok && cur.SheetIndex != v.activeSheet {
		v.activeSheet = cur.SheetIndex
	}
	v.mu.Unlock()
	v.notify()
}

// IsMatch reports whether a cell of the open workbook matches the query.
func (v *Viewer) IsMatch(sheet, row, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.IsMatch(sheet, row, col)
}

// IsCurrentMatch reports whether a cell is the current match.
func (v *Viewer) IsCurrentMatch(sheet, row, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.IsCurrentMatch(sheet, row, col)
}

// CurrentMatchRow returns the row of the current match when it lies on the
// active sheet.
func (v *Viewer) CurrentMatchRow() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur, ok := v.engine.Current()
	if !ok || cur.SheetIndex != v.activeSheet {
		return 0, false
	}
	return cur.Row, true
}

// CurrentMatch returns the current match, if any.
func (v *Viewer) CurrentMatch() (models.SearchMatch, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.Current()
}

// OpenExternal opens path in its default application. Failures are logged and
// returned, never stored as session state.
func (v *Viewer) OpenExternal(path string) error {
	if err := v.opener.Open(path); err != nil {
		v.logger.Error("failed to open externally", "path", path, "error", err)
		return err
	}
	v.logger.Info("opened externally", "path", path)
	return nil
}

// Snapshot returns a copy of the current state.
func (v *Viewer) Snapshot() State {
	folders := v.registry.Paths()
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		Folders:      folders,
		Files:        slices.Clone(v.files),
		Expanded:     maps.Clone(v.expanded),
		SelectedPath: v.selected,
		Workbook:     v.workbook,
		Loading:      v.loading,
		Err:          v.err,
		ActiveSheet:  v.activeSheet,
		Query:        v.engine.Query(),
		MatchCount:   v.engine.Total(),
		CurrentMatch: v.engine.CurrentIndex(),
	}
}
