// Package catalog lists the spreadsheet files found in registered folders.
package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LockFilePrefix marks the lock file an editor keeps next to an open workbook.
const LockFilePrefix = "~$"

// DefaultExtensions are the recognized spreadsheet extensions.
var DefaultExtensions = []string{".xlsx", ".xlsm", ".xls"}

// Options configures a Catalog.
type Options struct {
	// Locale is a BCP 47 tag used to collate folder and file names.
	// Empty or invalid tags fall back to the root collation.
	Locale string
	// Extensions overrides DefaultExtensions. Compared case-insensitively.
	Extensions []string
}

// Catalog scans folders for spreadsheet files.
type Catalog struct {
	fsys   FileSystem
	tag    language.Tag
	exts   []string
	logger *slog.Logger
}

// New creates a catalog over fsys.
func New(fsys FileSystem, opts Options, logger *slog.Logger) *Catalog {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tag := language.Und
	if opts.Locale != "" {
		if t, err := language.Parse(opts.Locale); err == nil {
			tag = t
		} else {
			logger.Warn("invalid locale, using default collation", "locale", opts.Locale, "error", err)
		}
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	lower := make([]string, len(exts))
	for i, e := range exts {
		lower[i] = strings.ToLower(e)
	}
	return &Catalog{fsys: fsys, tag: tag, exts: lower, logger: logger}
}

// IsSpreadsheet reports whether name has a recognized extension and is not a
// lock file.
func (c *Catalog) IsSpreadsheet(name string) bool {
	if strings.HasPrefix(name, LockFilePrefix) {
		return false
	}
	lower := strings.ToLower(name)
	for _, ext := range c.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scan lists every folder concurrently and returns the merged, sorted result.
// A folder that cannot be listed is logged and contributes nothing; a file
// whose size cannot be read is dropped.
func (c *Catalog) Scan(ctx context.Context, folders []string) []models.ExcelFile {
	perFolder := make([][]models.ExcelFile, len(folders))

	var g errgroup.Group
	for i, folder := range folders {
		g.Go(func() error {
			files, err := c.scanFolder(ctx, folder)
			if err != nil {
				c.logger.Warn("folder scan failed", "error", err)
				return nil
			}
			perFolder[i] = files
			return nil
		})
	}
	_ = g.Wait()

	var all []models.ExcelFile
	for _, files := range perFolder {
		all = append(all, files...)
	}
	c.sort(all)

	c.logger.Debug("catalog scanned", "folders", len(folders), "files", len(all))
	return all
}

func (c *Catalog) scanFolder(ctx context.Context, folder string) ([]models.ExcelFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FolderScanError{Folder: folder, Err: err}
	}
	entries, err := c.fsys.ReadDir(folder)
	if err != nil {
		return nil, &FolderScanError{Folder: folder, Err: err}
	}

	folderName := FolderName(folder)
	var files []models.ExcelFile
	for _, entry := range entries {
		name := entry.Name()
		if name == "" || entry.IsDir() || !c.IsSpreadsheet(name) {
			continue
		}
		path := filepath.Join(folder, name)
		info, err := c.fsys.Stat(path)
		if err != nil {
			c.logger.Debug("dropping file", "error", &FileStatError{Path: path, Err: err})
			continue
		}
		if info.IsDir() {
			continue
		}
		files = append(files, models.ExcelFile{
			Name:       name,
			Path:       path,
			Size:       info.Size(),
			FolderName: folderName,
		})
	}
	return files, nil
}

// sort orders files by folder name, then file name, under the catalog's
// collation, with the path as a final tie-breaker.
func (c *Catalog) sort(files []models.ExcelFile) {
	// collators are not safe for concurrent use, so one is built per sort
	col := collate.New(c.tag)
	slices.SortStableFunc(files, func(a, b models.ExcelFile) int {
		if n := col.CompareString(a.FolderName, b.FolderName); n != 0 {
			return n
		}
		if n := col.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// FolderName returns the display name of a folder path.
func FolderName(folder string) string {
	clean := filepath.Clean(folder)
	name := filepath.Base(clean)
	if name == "." || name == string(filepath.Separator) {
		return clean
	}
	return name
}

// Group splits a sorted catalog into runs sharing a folder name, keeping order.
func Group(files []models.ExcelFile) []FolderGroup {
	var groups []FolderGroup
	for _, f := range files {
		if n := len(groups); n > 0 && groups[n-1].Folder == f.FolderName {
			groups[n-1].Files = append(groups[n-1].Files, f)
			continue
		}
		groups = append(groups, FolderGroup{Folder: f.FolderName, Files: []models.ExcelFile{f}})
	}
	return groups
}

// FolderGroup is the files of one folder.
type FolderGroup struct {
	Folder string
	Files  []models.ExcelFile
}
