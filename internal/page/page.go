// Package page collects the blocks extensions contribute while an image is displayed.
package page

import (
	"sort"
	"sync"

	"media-board/internal/events"
)

// Page accumulates blocks for a single render. It satisfies events.Page.
type Page struct {
	mu     sync.Mutex
	Title  string
	blocks []events.Block
}

// New returns an empty page.
func New(title string) *Page {
	return &Page{Title: title}
}

// AddBlock appends b.
func (p *Page) AddBlock(b events.Block) {
	p.mu.Lock()
	p.blocks = append(p.blocks, b)
	p.mu.Unlock()
}

// Blocks returns the blocks ordered by position; equal positions keep insertion order.
func (p *Page) Blocks() []events.Block {
	p.mu.Lock()
	out := make([]events.Block, len(p.blocks))
	copy(out, p.blocks)
	p.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Section returns the ordered blocks placed in section.
func (p *Page) Section(section string) []events.Block {
	var out []events.Block
	for _, b := range p.Blocks() {
		if b.Section == section {
			out = append(out, b)
		}
	}
	return out
}

// SortParts orders admin block parts by position, stable for ties.
func SortParts(parts []events.Part) []events.Part {
	out := make([]events.Part, len(parts))
	copy(out, parts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
