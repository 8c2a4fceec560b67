package gdrive

import (
	"strings"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// Drive MIME types.
const (
	MimeTypeFolder = "application/vnd.google-apps.folder"

	// Workspace documents (Docs, Sheets, ...) share this prefix and have no
	// binary content to download.
	mimeTypeWorkspacePrefix = "application/vnd.google-apps."
)

// URIPrefix is prepended to file IDs to form listing paths.
const URIPrefix = "gdrive://files/"

// rootFolderID is Drive's alias for the top of My Drive.
const rootFolderID = "root"

// FileToRemoteFile converts Drive file metadata to a listing entry.
func FileToRemoteFile(file *drive.File) domain.RemoteFile {
	modified, _ := time.Parse(time.RFC3339, file.ModifiedTime)
	return domain.RemoteFile{
		Name:     file.Name,
		Path:     FileURI(file.Id),
		ID:       file.Id,
		Size:     file.Size,
		Modified: modified,
	}
}

// ShouldListFile reports whether a listing entry should be returned.
func ShouldListFile(file *drive.File) bool {
	if file == nil || file.Name == "" || file.Trashed {
		return false
	}
	return !strings.HasPrefix(file.MimeType, mimeTypeWorkspacePrefix)
}

// FileURI returns the listing path of a file ID.
func FileURI(id string) string {
	return URIPrefix + id
}

// FileID extracts the file ID from a listing path. Bare IDs are returned unchanged.
func FileID(p string) string {
	return strings.TrimPrefix(p, URIPrefix)
}

// escapeQuery quotes a value for use inside a Drive query string literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
