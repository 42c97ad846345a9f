package mssqlkit

import "fmt"

// FileKind tags the role of one physical database file, using the
// engine's own type_desc vocabulary as reported by sys.master_files.
type FileKind string

const (
	FileKindRows       FileKind = "ROWS"
	FileKindLog        FileKind = "LOG"
	FileKindFileStream FileKind = "FILESTREAM"
	FileKindFullText   FileKind = "FULLTEXT"
)

// DatabaseFile describes one physical file backing a database.
type DatabaseFile struct {
	Kind FileKind `json:"kind"`
	Path string   `json:"path"`
}

// DatabaseLayout is the physical layout of a database: its name plus the
// ordered, non-empty list of files backing it. DetachDatabase produces
// one; AttachDatabase consumes one, possibly after the caller relocates
// the files on disk.
type DatabaseLayout struct {
	Name  DatabaseName   `json:"name"`
	Files []DatabaseFile `json:"files"`
}

// validate rejects layouts that cannot describe an attachable database.
func (l *DatabaseLayout) validate(op string) error {
	if l == nil || len(l.Files) == 0 {
		return &Error{
			Code:    CodeInvalidLayout,
			Message: "database layout must list at least one file",
			Op:      op,
		}
	}
	for i, f := range l.Files {
		if f.Kind == "" || f.Path == "" {
			return &Error{
				Code:    CodeInvalidLayout,
				Message: fmt.Sprintf("database layout file %d is missing its kind or path", i),
				Op:      op,
			}
		}
	}
	return nil
}
