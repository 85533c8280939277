package models

// ExcelFile is a spreadsheet discovered in a registered folder.
type ExcelFile struct {
	// Name is the file name.
	Name string `json:"name" yaml:"name"`
	// Path is the full path and the unique key of the entry.
	Path string `json:"path" yaml:"path"`
	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`
	// FolderName is the display name of the owning folder.
	FolderName string `json:"folderName,omitempty" yaml:"folderName,omitempty"`
}
