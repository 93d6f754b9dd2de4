package page

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"media-board/internal/events"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
)

var log = logging.Named("page")

// ThemeSpec describes a display block rendered from a template. Body is
// executed with the *mediatypes.Image, so {{.ImageLink}}, {{.ThumbLink}},
// {{.Width}} and the other image fields are available.
type ThemeSpec struct {
	Header   string
	Section  string
	Position int
	Body     string
	// BodyFile is read when Body is empty.
	BodyFile string
}

// TemplateTheme is a display theme built from a ThemeSpec.
type TemplateTheme struct {
	header   string
	section  string
	position int
	tmpl     *template.Template
}

// NewTemplateTheme parses spec. Header defaults to "Image", Section to
// "main" and Position to 10.
func NewTemplateTheme(name string, spec ThemeSpec) (*TemplateTheme, error) {
	body := spec.Body
	if body == "" {
		if spec.BodyFile == "" {
			return nil, fmt.Errorf("theme %s: no template body", name)
		}
		data, err := os.ReadFile(spec.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", name, err)
		}
		body = string(data)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("theme %s: parse template: %w", name, err)
	}

	t := &TemplateTheme{header: spec.Header, section: spec.Section, position: spec.Position, tmpl: tmpl}
	if t.header == "" {
		t.header = "Image"
	}
	if t.section == "" {
		t.section = "main"
	}
	if t.position == 0 {
		t.position = 10
	}
	return t, nil
}

// DisplayImage adds the rendered block to p. A template that fails to
// execute adds nothing.
func (t *TemplateTheme) DisplayImage(p events.Page, img *mediatypes.Image) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, img); err != nil {
		log.Warn("Theme %s failed for image %d: %v", t.tmpl.Name(), img.ID, err)
		return
	}
	p.AddBlock(events.Block{Header: t.header, Body: buf.String(), Section: t.section, Position: t.position})
}
