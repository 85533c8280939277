package catalog

import (
	"io/fs"
	"os"
)

// FileSystem is the host file access the catalog and viewer depend on.
type FileSystem interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem implements FileSystem with the os package.
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFileSystem) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }
