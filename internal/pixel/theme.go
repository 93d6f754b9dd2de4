package pixel

import (
	"fmt"
	"html"

	"media-board/internal/events"
	"media-board/internal/mediatypes"
)

// Theme shows the full image inline.
type Theme struct{}

// NewTheme returns the default pixel theme.
func NewTheme() any { return Theme{} }

func (Theme) DisplayImage(page events.Page, img *mediatypes.Image) {
	body := fmt.Sprintf("<img id='main_image' class='shm-main-image' alt='main image' src='%s' data-width='%d' data-height='%d'>",
		html.EscapeString(img.ImageLink()), img.Width, img.Height)
	page.AddBlock(events.Block{Header: "Image", Body: body, Section: "main", Position: 10})
}
