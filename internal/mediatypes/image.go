package mediatypes

import (
	"fmt"
	"strings"
	"time"
)

// Image is a stored media item. Hash is the md5 of the file contents and
// is the identity used by the warehouse; ID is assigned by the database.
type Image struct {
	ID       int64     `json:"id"`
	Hash     string    `json:"hash"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Filesize int64     `json:"filesize"`
	Filename string    `json:"filename"`
	Ext      string    `json:"ext"`
	Tags     []string  `json:"tags"`
	Source   string    `json:"source,omitempty"`
	Locked   bool      `json:"locked"`
	Rating   string    `json:"rating,omitempty"`
	Posted   time.Time `json:"posted"`
}

// ImageLink returns the URL path serving the original file.
func (i *Image) ImageLink() string {
	return fmt.Sprintf("/api/image/%d/file", i.ID)
}

// ThumbLink returns the URL path serving the thumbnail.
func (i *Image) ThumbLink() string {
	return fmt.Sprintf("/api/thumbnail/%d", i.ID)
}

// TagString returns the tags joined by single spaces.
func (i *Image) TagString() string {
	return strings.Join(i.Tags, " ")
}
