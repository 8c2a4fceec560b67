package dropbox

import (
	"path"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// FileToRemoteFile converts Dropbox file metadata to a listing entry.
func FileToRemoteFile(file *files.FileMetadata) domain.RemoteFile {
	p := file.PathDisplay
	if p == "" {
		p = file.PathLower
	}
	return domain.RemoteFile{
		Name:     file.Name,
		Path:     p,
		ID:       file.Id,
		Size:     int64(file.Size),
		Modified: file.ServerModified,
	}
}

// ShouldListFile reports whether a listing entry should be returned.
func ShouldListFile(file *files.FileMetadata) bool {
	return file != nil && file.Name != ""
}

// normaliseFolder maps the root folder to the empty path Dropbox expects.
func normaliseFolder(folder string) string {
	if folder == "" || folder == "/" {
		return ""
	}
	return path.Clean("/" + folder)
}
