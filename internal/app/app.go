package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"media-board/internal/database"
	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/filesystem"
	"media-board/internal/index"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
	"media-board/internal/notify"
	"media-board/internal/page"
	"media-board/internal/pdf"
	"media-board/internal/pixel"
	"media-board/internal/startup"
	"media-board/internal/storage"
	"media-board/internal/thumbnail"
)

var log = logging.Named("app")

// ErrImageNotFound is returned for operations on an unknown image id.
var ErrImageNotFound = errors.New("image not found")

// App holds the wired components.
type App struct {
	Config    *startup.Config
	DB        *database.Database
	Warehouse *storage.Warehouse
	Store     *storage.Library
	Bus       *extension.Bus

	nats *notify.Client
}

// NewRegistry returns the extension table. pub may be nil, in which case no
// notifier is registered.
func NewRegistry(db index.Writer, pub notify.Publisher, subject string) *extension.Registry {
	reg := extension.NewRegistry()
	reg.MustRegister(
		extension.Entry{ID: index.ID, New: index.Factory(db)},
		extension.Entry{ID: pixel.ID, New: pixel.New, Theme: pixel.NewTheme},
		extension.Entry{ID: pdf.ID, New: pdf.New, Theme: pdf.NewTheme},
	)
	if pub != nil {
		reg.MustRegister(extension.Entry{ID: notify.ID, New: notify.Factory(pub, subject)})
	}
	return reg
}

// applyThemes installs a template theme for every configured extension id.
func applyThemes(reg *extension.Registry, specs map[string]page.ThemeSpec) error {
	ids := reg.IDs()
	for id, spec := range specs {
		if !lo.Contains(ids, id) {
			return fmt.Errorf("theme for unknown extension %q", id)
		}
		theme, err := page.NewTemplateTheme(id, spec)
		if err != nil {
			return err
		}
		reg.OverrideTheme(id, func() any { return theme })
		log.Info("Custom theme installed for %s", id)
	}
	return nil
}

// New opens the database and warehouse and builds the extension bus.
func New(ctx context.Context, cfg *startup.Config) (*App, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	startup.LogDatabaseInit(time.Since(start))

	a := &App{Config: cfg, DB: db}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	w, err := storage.NewWarehouse(cfg.WarehouseDir)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	a.Warehouse = w
	a.Store = storage.NewLibrary(w, a.DB)
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		storage.KindImages: filepath.Join(w.Root(), storage.KindImages),
		storage.KindThumbs: filepath.Join(w.Root(), storage.KindThumbs),
	}))

	if cfg.Thumbs.Engine == thumbnail.EngineVips {
		if err := thumbnail.InitVips(); err != nil {
			log.Warn("libvips unavailable, using %s: %v", thumbnail.EngineGD, err)
			cfg.Thumbs.Engine = thumbnail.EngineGD
		}
	}
	startup.LogThumbnailInit(cfg.Thumbs.Engine, thumbnail.CheckTools(thumbnail.Tools(cfg.Thumbs)))

	var pub notify.Publisher
	if cfg.NATSEnabled() {
		client, err := notify.Connect(cfg.NATS)
		if err != nil {
			// Notifications are optional; the board works without them.
			log.Warn("NATS notifications disabled: %v", err)
		} else {
			a.nats = client
			pub = client
		}
	}

	reg := NewRegistry(a.DB, pub, cfg.NATS.Subject)
	if err := applyThemes(reg, cfg.Themes); err != nil {
		return err
	}
	bus, err := reg.Build(ctx, extension.Context{Thumbs: cfg.Thumbs, Store: a.Store, Driver: a.DB.DriverName()})
	if err != nil {
		return err
	}
	a.Bus = bus
	startup.LogExtensions(extensionIDs(bus))

	metrics.InitializeMetrics(thumbnail.Names())
	return nil
}

func extensionIDs(bus *extension.Bus) []string {
	exts := bus.Extensions()
	ids := make([]string, len(exts))
	for i, e := range exts {
		ids[i] = fmt.Sprintf("%s(%d)", e.ID(), e.Priority())
	}
	return ids
}

// Close releases the database, NATS connection and libvips.
func (a *App) Close() error {
	var errs []error
	if a.nats != nil {
		errs = append(errs, a.nats.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	thumbnail.ShutdownVips()
	return errors.Join(errs...)
}

// Upload publishes a DataUpload for the file at tmp. An upload no handler
// claims returns an event with ImageID zero and no error.
func (a *App) Upload(ctx context.Context, tmp string, meta events.UploadMetadata) (*events.DataUpload, error) {
	up, err := events.NewDataUpload(tmp, meta)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := a.Bus.Publish(ctx, up); err != nil {
		return up, err
	}
	if up.Handler == "" {
		metrics.UploadsTotal.WithLabelValues("none", "unclaimed").Inc()
		log.Info("No handler claimed %s (.%s)", meta.Filename, up.Type)
	}
	return up, nil
}

// Image returns image id or ErrImageNotFound.
func (a *App) Image(ctx context.Context, id int64) (*mediatypes.Image, error) {
	img, err := a.Store.FindImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: %d", ErrImageNotFound, id)
	}
	return img, nil
}

// RegenerateThumbnail requests a thumbnail for img. Without force an existing
// thumbnail is kept.
func (a *App) RegenerateThumbnail(ctx context.Context, img *mediatypes.Image, force bool) (*events.ThumbnailGeneration, error) {
	tg := &events.ThumbnailGeneration{Hash: img.Hash, Type: img.Ext, Force: force}
	if err := a.Bus.Publish(ctx, tg); err != nil {
		return tg, err
	}
	return tg, tg.Err
}

// Display builds the view page of img.
func (a *App) Display(ctx context.Context, img *mediatypes.Image) (*page.Page, error) {
	p := page.New(img.Filename)
	if err := a.Bus.Publish(ctx, &events.DisplayingImage{Image: img, Page: p}); err != nil {
		return nil, err
	}
	return p, nil
}

// AdminParts collects the admin controls for img in position order.
func (a *App) AdminParts(ctx context.Context, img *mediatypes.Image) ([]events.Part, error) {
	e := &events.ImageAdminBlockBuilding{Image: img}
	if err := a.Bus.Publish(ctx, e); err != nil {
		return nil, err
	}
	return page.SortParts(e.Parts), nil
}

// SetRating publishes a RatingSet for img.
func (a *App) SetRating(ctx context.Context, img *mediatypes.Image, rating string) error {
	return a.Bus.Publish(ctx, &events.RatingSet{Image: img, Rating: rating})
}

// SetLocked publishes a LockSet for img.
func (a *App) SetLocked(ctx context.Context, img *mediatypes.Image, locked bool) error {
	return a.Bus.Publish(ctx, &events.LockSet{Image: img, Locked: locked})
}
