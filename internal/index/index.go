package index

import (
	"context"
	"errors"
	"fmt"

	"media-board/internal/database"
	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
)

// ID is the registry id of the index extension.
const ID = "index"

// Priority runs the index ahead of default-priority listeners.
const Priority = 30

var log = logging.Named(ID)

// Writer is the subset of *database.Database the index needs.
type Writer interface {
	AddImage(ctx context.Context, img *mediatypes.Image) (int64, error)
	ReplaceImage(ctx context.Context, id int64, img *mediatypes.Image) error
	SetRating(ctx context.Context, id int64, rating string) error
	SetLocked(ctx context.Context, id int64, locked bool) error
}

// Index writes image events through to the database.
type Index struct {
	extension.Base
	db Writer
}

// Factory returns a registry factory bound to db.
func Factory(db Writer) extension.Factory {
	return func(_ *extension.Context) (extension.Extension, error) {
		if db == nil {
			return nil, errors.New("index: no database")
		}
		return New(db), nil
	}
}

// New returns the index extension for db.
func New(db Writer) *Index {
	return &Index{
		Base: extension.NewBase(ID, extension.WithPriority(Priority), extension.WithDBSupport(database.DriverName)),
		db:   db,
	}
}

func (x *Index) OnImageAddition(ctx context.Context, e *events.ImageAddition) error {
	if e.Image == nil {
		return events.NotApplicable("image_addition", "no image")
	}
	id, err := x.db.AddImage(ctx, e.Image)
	if err != nil {
		return classify("add image", err)
	}
	log.Debug("Stored image %d (%s)", id, e.Image.Hash)
	return nil
}

func (x *Index) OnImageReplace(ctx context.Context, e *events.ImageReplace) error {
	if e.Image == nil {
		return events.NotApplicable("image_replace", "no image")
	}
	if err := x.db.ReplaceImage(ctx, e.ID, e.Image); err != nil {
		return classify("replace image", err)
	}
	log.Debug("Replaced content of image %d with %s", e.ID, e.Image.Hash)
	return nil
}

func (x *Index) OnRatingSet(ctx context.Context, e *events.RatingSet) error {
	if e.Image == nil || e.Image.ID == 0 {
		return events.NotApplicable("rating_set", "image not stored")
	}
	if err := x.db.SetRating(ctx, e.Image.ID, e.Rating); err != nil {
		return classify("set rating", err)
	}
	e.Image.Rating = e.Rating
	return nil
}

func (x *Index) OnLockSet(ctx context.Context, e *events.LockSet) error {
	if e.Image == nil || e.Image.ID == 0 {
		return events.NotApplicable("lock_set", "image not stored")
	}
	if err := x.db.SetLocked(ctx, e.Image.ID, e.Locked); err != nil {
		return classify("set lock", err)
	}
	e.Image.Locked = e.Locked
	return nil
}

// classify maps database errors onto bus error kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, database.ErrDuplicateHash):
		return &events.Error{Kind: events.KindRejected, Op: "upload", Msg: events.MsgDuplicate, Err: err}
	case errors.Is(err, database.ErrNotFound):
		return &events.Error{Kind: events.KindRejected, Op: "upload", Msg: events.MsgTargetMissing, Err: err}
	default:
		return events.Fatal(op, fmt.Errorf("index: %w", err))
	}
}
