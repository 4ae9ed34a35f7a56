package models

import (
	"time"

	"github.com/google/uuid"
)

// File entry types.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// ValidType reports whether t is one of the known file entry types.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File describes a stored entry: a folder, a generic file, or an image.
// ParentID is the explicit "optional parent" — an invalid NullUUID means the
// entry lives at the root. LocalPath is the blob-store key of the content
// and is empty for folders.
type File struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	IsPublic  bool
	ParentID  uuid.NullUUID
	LocalPath string
	CreatedAt time.Time
}

// IsFolder reports whether the entry is a folder.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}
