package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"media-board/internal/mediatypes"
)

func TestTemplateTheme(t *testing.T) {
	theme, err := NewTemplateTheme("pixel", ThemeSpec{
		Body: `<img src="{{.ImageLink}}" width="{{.Width}}" alt="{{.Filename}}">`,
	})
	if err != nil {
		t.Fatalf("NewTemplateTheme() error = %v", err)
	}

	img := &mediatypes.Image{ID: 3, Hash: "abcd", Ext: "png", Width: 640, Filename: `a"b.png`}
	p := New("image 3")
	theme.DisplayImage(p, img)

	blocks := p.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("len(Blocks()) = %d, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Header != "Image" || b.Section != "main" || b.Position != 10 {
		t.Errorf("block = %+v, want defaults", b)
	}
	if !strings.Contains(b.Body, img.ImageLink()) || !strings.Contains(b.Body, `width="640"`) {
		t.Errorf("Body = %q", b.Body)
	}
	if strings.Contains(b.Body, `a"b`) {
		t.Errorf("Body not escaped: %q", b.Body)
	}
}

func TestTemplateThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdf.html")
	if err := os.WriteFile(path, []byte(`<a href="{{.ImageLink}}">{{.Ext}}</a>`), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := NewTemplateTheme("pdf", ThemeSpec{Header: "Document", Section: "left", Position: 5, BodyFile: path})
	if err != nil {
		t.Fatalf("NewTemplateTheme() error = %v", err)
	}

	p := New("doc")
	theme.DisplayImage(p, &mediatypes.Image{ID: 1, Hash: "ffff", Ext: "pdf"})
	b := p.Blocks()[0]
	if b.Header != "Document" || b.Section != "left" || b.Position != 5 || !strings.Contains(b.Body, ">pdf<") {
		t.Errorf("block = %+v", b)
	}
}

func TestTemplateThemeErrors(t *testing.T) {
	tests := map[string]ThemeSpec{
		"empty":        {},
		"missing file": {BodyFile: filepath.Join(t.TempDir(), "nope.html")},
		"bad syntax":   {Body: "{{.ImageLink"},
	}
	for name, spec := range tests {
		if _, err := NewTemplateTheme(name, spec); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestTemplateThemeExecFailureAddsNothing(t *testing.T) {
	theme, err := NewTemplateTheme("broken", ThemeSpec{Body: "{{.NoSuchField}}"})
	if err != nil {
		t.Fatal(err)
	}
	p := New("x")
	theme.DisplayImage(p, &mediatypes.Image{ID: 1})
	if len(p.Blocks()) != 0 {
		t.Errorf("blocks = %+v, want none", p.Blocks())
	}
}
