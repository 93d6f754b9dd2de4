package notify

import (
	"context"
	"encoding/json"
	"time"

	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
)

// ID is the registry id of the notifier.
const ID = "notify"

// Priority runs the notifier after the index.
const Priority = 90

var log = logging.Named(ID)

// Message is the JSON payload of every notification.
type Message struct {
	Event  string    `json:"event"`
	ID     int64     `json:"id"`
	Hash   string    `json:"hash"`
	Ext    string    `json:"ext"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Tags   []string  `json:"tags"`
	Rating string    `json:"rating,omitempty"`
	Locked bool      `json:"locked"`
	Time   time.Time `json:"time"`
}

// Notifier forwards stored image events to a Publisher.
type Notifier struct {
	extension.Base
	pub    Publisher
	prefix string
	now    func() time.Time
}

// Factory returns a registry factory publishing through pub.
func Factory(pub Publisher, prefix string) extension.Factory {
	return func(_ *extension.Context) (extension.Extension, error) {
		return New(pub, prefix), nil
	}
}

// New returns a notifier. An empty prefix defaults to "media-board".
func New(pub Publisher, prefix string) *Notifier {
	if prefix == "" {
		prefix = DefaultConfig().Subject
	}
	return &Notifier{
		Base:   extension.NewBase(ID, extension.WithPriority(Priority)),
		pub:    pub,
		prefix: prefix,
		now:    time.Now,
	}
}

func (n *Notifier) OnImageAddition(_ context.Context, e *events.ImageAddition) error {
	n.send(e.Name(), "added", e.Image)
	return nil
}

func (n *Notifier) OnImageReplace(_ context.Context, e *events.ImageReplace) error {
	if e.Image != nil && e.Image.ID == 0 {
		img := *e.Image
		img.ID = e.ID
		n.send(e.Name(), "replaced", &img)
		return nil
	}
	n.send(e.Name(), "replaced", e.Image)
	return nil
}

func (n *Notifier) OnRatingSet(_ context.Context, e *events.RatingSet) error {
	n.send(e.Name(), "rated", e.Image)
	return nil
}

func (n *Notifier) OnLockSet(_ context.Context, e *events.LockSet) error {
	n.send(e.Name(), "locked", e.Image)
	return nil
}

func (n *Notifier) send(event, verb string, img *mediatypes.Image) {
	if n.pub == nil || img == nil || img.ID == 0 {
		return
	}

	data, err := json.Marshal(Message{
		Event:  event,
		ID:     img.ID,
		Hash:   img.Hash,
		Ext:    img.Ext,
		Width:  img.Width,
		Height: img.Height,
		Tags:   img.Tags,
		Rating: img.Rating,
		Locked: img.Locked,
		Time:   n.now().UTC(),
	})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(event, "error").Inc()
		log.Error("Encoding %s for image %d: %v", event, img.ID, err)
		return
	}

	subject := n.prefix + ".image." + verb
	if err := n.pub.Publish(subject, data); err != nil {
		metrics.NotificationsTotal.WithLabelValues(event, "error").Inc()
		log.Warn("Publishing %s for image %d failed: %v", subject, img.ID, err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(event, "success").Inc()
	log.Debug("Published %s for image %d", subject, img.ID)
}
