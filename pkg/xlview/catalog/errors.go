package catalog

import "fmt"

// FolderScanError represents a folder that could not be listed.
type FolderScanError struct {
	Folder string
	Err    error
}

func (e *FolderScanError) Error() string {
	return fmt.Sprintf("cannot scan folder %s: %v", e.Folder, e.Err)
}

func (e *FolderScanError) Unwrap() error {
	return e.Err
}

// FileStatError represents a catalog entry whose size could not be read.
type FileStatError struct {
	Path string
	Err  error
}

func (e *FileStatError) Error() string {
	return fmt.Sprintf("cannot stat %s: %v", e.Path, e.Err)
}

func (e *FileStatError) Unwrap() error {
	return e.Err
}
