package pdf

import (
	"fmt"
	"html"

	"media-board/internal/events"
	"media-board/internal/mediatypes"
)

// Theme links the thumbnail to the document.
type Theme struct{}

// NewTheme returns the default PDF theme.
func NewTheme() any { return Theme{} }

func (Theme) DisplayImage(page events.Page, img *mediatypes.Image) {
	body := fmt.Sprintf("<a href='%s'><img src='%s' /></a>",
		html.EscapeString(img.ImageLink()), html.EscapeString(img.ThumbLink()))
	page.AddBlock(events.Block{Header: "PDF", Body: body, Section: "main", Position: 10})
}
