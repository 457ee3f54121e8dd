package mediatypes

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// FileType represents the category of a media file.
type FileType string

const (
	// FileTypeImage represents an image file.
	FileTypeImage FileType = "image"
	// FileTypeVideo represents a video file.
	FileTypeVideo FileType = "video"
	// FileTypeAudio represents an audio file.
	FileTypeAudio FileType = "audio"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// DefaultMimeType is returned for any extension missing from MimeTypes.
const DefaultMimeType = "application/octet-stream"

// MimeTypes maps lowercase extensions (without the dot) to the content type
// served by the resource protocol. The table is closed on purpose: anything
// else is served as DefaultMimeType.
var MimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"mp4":  "video/mp4",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
}

// Extension returns the lower-cased extension of path without the leading
// dot, or "" when there is none.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// GetMimeType returns the MIME type for a lowercase extension without the dot
// (e.g. "mp4"). Returns DefaultMimeType if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return DefaultMimeType
}

// MimeTypeForPath classifies path by its extension.
func MimeTypeForPath(path string) string {
	return GetMimeType(Extension(path))
}

// GetFileType returns the FileType for a lowercase extension without the dot.
func GetFileType(ext string) FileType {
	mime, ok := MimeTypes[ext]
	if !ok {
		return FileTypeOther
	}
	switch {
	case strings.HasPrefix(mime, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mime, "video/"):
		return FileTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return FileTypeAudio
	}
	return FileTypeOther
}

// SupportedExtensions returns the known extensions in sorted order.
func SupportedExtensions() []string {
	exts := lo.Keys(MimeTypes)
	slices.Sort(exts)
	return exts
}
