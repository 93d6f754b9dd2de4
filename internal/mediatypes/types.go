package mediatypes

import "strings"

// FileType represents the media family of a stored file.
type FileType string

const (
	// FileTypeImage represents a raster image handled in-process.
	FileTypeImage FileType = "image"
	// FileTypeDocument represents a paged document such as PDF.
	FileTypeDocument FileType = "document"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// ImageExtensions maps extensions (no leading dot) to whether they are raster formats.
var ImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// DocumentExtensions maps extensions (no leading dot) to whether they are document formats.
var DocumentExtensions = map[string]bool{
	"pdf": true,
}

// MimeTypes maps extensions to their MIME types.
var MimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"pdf":  "application/pdf",
}

// NormalizeExt lowercases an extension, drops a leading dot and strips any
// "?query" suffix left over from URL-derived names.
func NormalizeExt(ext string) string {
	ext = StripQuery(ext)
	ext = strings.TrimPrefix(ext, ".")
	return strings.ToLower(ext)
}

// StripQuery removes everything from the first '?' onwards.
func StripQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

// GetFileType returns the FileType for an extension.
// The extension is normalized first, so ".JPG" and "jpg?x=1" both resolve.
func GetFileType(ext string) FileType {
	ext = NormalizeExt(ext)
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	if DocumentExtensions[ext] {
		return FileTypeDocument
	}
	return FileTypeOther
}

// GetMimeType returns the MIME type for an extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[NormalizeExt(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
