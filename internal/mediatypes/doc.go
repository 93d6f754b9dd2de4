// Package mediatypes provides the shared entity and file-type definitions used
// across the media board.
//
// It sits below every other internal package so that events, handlers and the
// storage layer can exchange an Image without import cycles. Apart from
// github.com/samber/lo for tag list handling it only uses the standard library.
//
// # Images
//
// Image is the persisted entity. The ingestion pipeline builds a transient
// candidate and hands it to the index extension, which assigns the ID.
//
// # Extensions
//
// Extensions are stored without a leading dot and lowercased. NormalizeExt also
// strips a "?query" suffix:
//
//	mediatypes.NormalizeExt(".JPG?1") // "jpg"
//	mediatypes.GetFileType("pdf")     // FileTypeDocument
//	mediatypes.GetMimeType("png")     // "image/png"
//
// # Tags
//
// ExplodeTags splits a space separated tag string, NormalizeTags trims and
// de-duplicates an existing list case-insensitively.
package mediatypes
