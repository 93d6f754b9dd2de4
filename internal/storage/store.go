package storage

import (
	"context"

	"media-board/internal/mediatypes"
)

// Store is the storage collaborator extensions work against.
type Store interface {
	Archive(ctx context.Context, hash, src string) error
	ImagePath(hash string) string
	ThumbnailPath(hash string) string
	// FindImageByID returns nil, nil when no image has that id.
	FindImageByID(ctx context.Context, id int64) (*mediatypes.Image, error)
	// Driver names the active metadata backend.
	Driver() string
}

// ImageIndex is the metadata side of a Store.
type ImageIndex interface {
	FindImageByID(ctx context.Context, id int64) (*mediatypes.Image, error)
	DriverName() string
}

// Library joins a Warehouse with an ImageIndex.
type Library struct {
	*Warehouse
	index ImageIndex
}

// NewLibrary returns a Store backed by w and index.
func NewLibrary(w *Warehouse, index ImageIndex) *Library {
	return &Library{Warehouse: w, index: index}
}

// FindImageByID looks the image up in the index.
func (l *Library) FindImageByID(ctx context.Context, id int64) (*mediatypes.Image, error) {
	return l.index.FindImageByID(ctx, id)
}

// Driver returns the index driver name.
func (l *Library) Driver() string {
	return l.index.DriverName()
}
