package events

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type uploadOnly struct {
	seen int
}

func (u *uploadOnly) OnDataUpload(_ context.Context, e *DataUpload) error {
	u.seen++
	e.ImageID = 7
	return nil
}

func TestDeliver_MatchesHandlerInterface(t *testing.T) {
	ctx := context.Background()
	l := &uploadOnly{}

	up := &DataUpload{}
	handled, err := up.Deliver(ctx, l)
	if !handled || err != nil {
		t.Fatalf("Deliver(DataUpload) = %v, %v", handled, err)
	}
	if up.ImageID != 7 || l.seen != 1 {
		t.Errorf("handler not invoked: id=%d seen=%d", up.ImageID, l.seen)
	}

	others := []Event{
		&InitExt{},
		&ThumbnailGeneration{},
		&ImageAddition{},
		&ImageReplace{},
		&RatingSet{},
		&LockSet{},
		&DisplayingImage{},
		&ImageAdminBlockBuilding{},
	}
	for _, e := range others {
		handled, err := e.Deliver(ctx, l)
		if handled || err != nil {
			t.Errorf("Deliver(%s) = %v, %v; want unhandled", e.Name(), handled, err)
		}
	}
}

func TestEventNamesAreUnique(t *testing.T) {
	all := []Event{
		&InitExt{}, &DataUpload{}, &ThumbnailGeneration{}, &ImageAddition{},
		&ImageReplace{}, &RatingSet{}, &LockSet{}, &DisplayingImage{}, &ImageAdminBlockBuilding{},
	}
	seen := map[string]bool{}
	for _, e := range all {
		if seen[e.Name()] {
			t.Errorf("duplicate event name %q", e.Name())
		}
		seen[e.Name()] = true
	}
}

func TestAddPart(t *testing.T) {
	e := &ImageAdminBlockBuilding{}
	e.AddPart("<a>", 20)
	e.AddPart("<b>", 21)

	if len(e.Parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(e.Parts))
	}
	if e.Parts[1].HTML != "<b>" || e.Parts[1].Position != 21 {
		t.Errorf("Parts[1] = %+v", e.Parts[1])
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not applicable", NotApplicable("op", "wrong type"), KindNotApplicable},
		{"upload", UploadError(MsgDuplicate), KindRejected},
		{"fatal", Fatal("archive", errors.New("disk full")), KindFatal},
		{"wrapped upload", fmt.Errorf("ctx: %w", UploadError(MsgInvalidFile)), KindRejected},
		{"plain error", errors.New("boom"), KindFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	if IsNotApplicable(nil) || IsRejected(nil) {
		t.Error("nil error must not be classified")
	}
	if !IsNotApplicable(ErrNotApplicable) {
		t.Error("ErrNotApplicable not classified as not applicable")
	}

	err := UploadError(MsgTargetMissing)
	if got := Message(err); got != MsgTargetMissing {
		t.Errorf("Message() = %q", got)
	}
	if got := err.Error(); got != "upload: target does not exist" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("disk full")
	fatal := Fatal("archive", cause)
	if !errors.Is(fatal, cause) {
		t.Error("Fatal does not unwrap to its cause")
	}
	if got := Message(fatal); got != "archive: disk full" {
		t.Errorf("Message(fatal) = %q", got)
	}
}

func TestNewDataUpload(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "php123")
	if err := os.WriteFile(tmp, []byte("hello world"), 0o600); err != nil {
		t.Fatal(err)
	}

	up, err := NewDataUpload(tmp, UploadMetadata{
		Filename: "Holiday.JPG?x=1",
		Tags:     []string{"Beach", "beach", "", "sun"},
	})
	if err != nil {
		t.Fatalf("NewDataUpload() error = %v", err)
	}

	if up.Hash != "5eb63bbbe01eeed093cb22bb8f5acdc3" || up.Metadata.Hash != up.Hash {
		t.Errorf("hash = %q / %q", up.Hash, up.Metadata.Hash)
	}
	if up.Metadata.Size != 11 {
		t.Errorf("size = %d", up.Metadata.Size)
	}
	if up.Type != "jpg" || up.Metadata.Extension != "jpg" {
		t.Errorf("type = %q, ext = %q", up.Type, up.Metadata.Extension)
	}
	if len(up.Metadata.Tags) != 2 {
		t.Errorf("tags = %v, want 2 normalized tags", up.Metadata.Tags)
	}
	if up.Metadata.IsReplace() {
		t.Error("IsReplace() = true for a new upload")
	}
	if up.ImageID != 0 {
		t.Errorf("ImageID = %d before dispatch", up.ImageID)
	}
}

func TestNewDataUpload_MissingFile(t *testing.T) {
	if _, err := NewDataUpload(filepath.Join(t.TempDir(), "gone"), UploadMetadata{}); err == nil {
		t.Error("expected error for missing temp file")
	}
}
