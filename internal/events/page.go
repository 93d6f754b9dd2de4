package events

// Block is an opaque fragment of markup placed on a page.
type Block struct {
	Header   string `json:"header"`
	Body     string `json:"body"`
	Section  string `json:"section"`
	Position int    `json:"position"`
}

// Part is a positioned fragment inside a composite block.
type Part struct {
	HTML     string `json:"html"`
	Position int    `json:"position"`
}

// Page is the page-rendering collaborator that owns the block list.
type Page interface {
	AddBlock(b Block)
}
