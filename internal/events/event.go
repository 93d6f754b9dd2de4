package events

import (
	"context"
	"fmt"
	"strings"

	"media-board/internal/filesystem"
	"media-board/internal/mediatypes"
)

// Event is a typed message delivered to every extension that handles it.
type Event interface {
	// Name identifies the event variant in logs and metrics.
	Name() string
	// Deliver calls the listener's handler for this variant. handled is false
	// when the listener does not implement the handler interface.
	Deliver(ctx context.Context, listener any) (handled bool, err error)
}

// InitExt is published once after every extension has been registered.
type InitExt struct{}

// InitExtHandler receives InitExt.
type InitExtHandler interface {
	OnInitExt(ctx context.Context, e *InitExt) error
}

func (e *InitExt) Name() string { return "init_ext" }

func (e *InitExt) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(InitExtHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnInitExt(ctx, e)
}

// UploadMetadata describes an uploaded file. Hash and Size are filled by
// NewDataUpload; the rest comes from the uploader.
type UploadMetadata struct {
	Size      int64
	Hash      string
	Filename  string
	Extension string
	Source    string
	Tags      []string
	Rating    string
	Locked    bool
	// ReplaceID names the image this upload supersedes. Zero means a new image.
	ReplaceID int64
}

// IsReplace reports whether the upload targets an existing image.
func (m UploadMetadata) IsReplace() bool {
	return m.ReplaceID > 0
}

// DataUpload announces a file waiting in a temporary location.
// ImageID is the output: zero after dispatch means no handler claimed it.
type DataUpload struct {
	TmpName  string
	Type     string
	Hash     string
	Metadata UploadMetadata

	ImageID int64
	Handler string
}

// NewDataUpload hashes the temporary file and derives the declared type from
// the metadata extension, falling back to the filename's extension.
func NewDataUpload(tmpName string, meta UploadMetadata) (*DataUpload, error) {
	hash, size, err := filesystem.HashFile(tmpName)
	if err != nil {
		return nil, fmt.Errorf("failed to hash upload: %w", err)
	}

	ext := meta.Extension
	if ext == "" {
		name := mediatypes.StripQuery(meta.Filename)
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			ext = name[i+1:]
		}
	}
	ext = mediatypes.NormalizeExt(ext)

	meta.Hash = hash
	meta.Size = size
	meta.Extension = ext
	meta.Tags = mediatypes.NormalizeTags(meta.Tags)

	return &DataUpload{
		TmpName:  tmpName,
		Type:     ext,
		Hash:     hash,
		Metadata: meta,
	}, nil
}

// DataUploadHandler receives DataUpload.
type DataUploadHandler interface {
	OnDataUpload(ctx context.Context, e *DataUpload) error
}

func (e *DataUpload) Name() string { return "data_upload" }

func (e *DataUpload) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(DataUploadHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnDataUpload(ctx, e)
}

// ThumbnailGeneration asks the handler for Type to (re)build the thumbnail of Hash.
// Generated and Err are outputs; Err carries engine failures, which never abort dispatch.
type ThumbnailGeneration struct {
	Hash  string
	Type  string
	Force bool

	Generated bool
	Err       error
}

// ThumbnailGenerationHandler receives ThumbnailGeneration.
type ThumbnailGenerationHandler interface {
	OnThumbnailGeneration(ctx context.Context, e *ThumbnailGeneration) error
}

func (e *ThumbnailGeneration) Name() string { return "thumbnail_generation" }

func (e *ThumbnailGeneration) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(ThumbnailGenerationHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnThumbnailGeneration(ctx, e)
}

// ImageAddition hands a new Image to the store. The index extension sets Image.ID.
type ImageAddition struct {
	Image *mediatypes.Image
}

// ImageAdditionHandler receives ImageAddition.
type ImageAdditionHandler interface {
	OnImageAddition(ctx context.Context, e *ImageAddition) error
}

func (e *ImageAddition) Name() string { return "image_addition" }

func (e *ImageAddition) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(ImageAdditionHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnImageAddition(ctx, e)
}

// ImageReplace swaps the content of image ID for Image, keeping the ID.
type ImageReplace struct {
	ID    int64
	Image *mediatypes.Image
}

// ImageReplaceHandler receives ImageReplace.
type ImageReplaceHandler interface {
	OnImageReplace(ctx context.Context, e *ImageReplace) error
}

func (e *ImageReplace) Name() string { return "image_replace" }

func (e *ImageReplace) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(ImageReplaceHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnImageReplace(ctx, e)
}

// RatingSet records a rating for an image.
type RatingSet struct {
	Image  *mediatypes.Image
	Rating string
}

// RatingSetHandler receives RatingSet.
type RatingSetHandler interface {
	OnRatingSet(ctx context.Context, e *RatingSet) error
}

func (e *RatingSet) Name() string { return "rating_set" }

func (e *RatingSet) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(RatingSetHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnRatingSet(ctx, e)
}

// LockSet records the lock flag for an image.
type LockSet struct {
	Image  *mediatypes.Image
	Locked bool
}

// LockSetHandler receives LockSet.
type LockSetHandler interface {
	OnLockSet(ctx context.Context, e *LockSet) error
}

func (e *LockSet) Name() string { return "lock_set" }

func (e *LockSet) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(LockSetHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnLockSet(ctx, e)
}

// DisplayingImage asks extensions to contribute markup for Image to Page.
type DisplayingImage struct {
	Image *mediatypes.Image
	Page  Page
}

// DisplayingImageHandler receives DisplayingImage.
type DisplayingImageHandler interface {
	OnDisplayingImage(ctx context.Context, e *DisplayingImage) error
}

func (e *DisplayingImage) Name() string { return "displaying_image" }

func (e *DisplayingImage) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(DisplayingImageHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnDisplayingImage(ctx, e)
}

// ImageAdminBlockBuilding collects the admin controls shown under an image.
// Parts is the output.
type ImageAdminBlockBuilding struct {
	Image *mediatypes.Image
	Parts []Part
}

// AddPart appends a markup fragment at the given position.
func (e *ImageAdminBlockBuilding) AddPart(html string, position int) {
	e.Parts = append(e.Parts, Part{HTML: html, Position: position})
}

// ImageAdminBlockBuildingHandler receives ImageAdminBlockBuilding.
type ImageAdminBlockBuildingHandler interface {
	OnImageAdminBlockBuilding(ctx context.Context, e *ImageAdminBlockBuilding) error
}

func (e *ImageAdminBlockBuilding) Name() string { return "image_admin_block_building" }

func (e *ImageAdminBlockBuilding) Deliver(ctx context.Context, listener any) (bool, error) {
	h, ok := listener.(ImageAdminBlockBuildingHandler)
	if !ok {
		return false, nil
	}
	return true, h.OnImageAdminBlockBuilding(ctx, e)
}
