package ingest

import (
	"media-board/internal/events"
	"media-board/internal/mediatypes"
)

// NewImage fills the metadata-derived fields of an entity. Query suffixes are
// stripped from the filename and extension.
func NewImage(meta events.UploadMetadata, width, height int) *mediatypes.Image {
	return &mediatypes.Image{
		Hash:     meta.Hash,
		Width:    width,
		Height:   height,
		Filesize: meta.Size,
		Filename: mediatypes.StripQuery(meta.Filename),
		Ext:      mediatypes.NormalizeExt(meta.Extension),
		Tags:     mediatypes.NormalizeTags(meta.Tags),
		Source:   meta.Source,
	}
}
