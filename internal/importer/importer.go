package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-board/internal/events"
	"media-board/internal/filesystem"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
	"media-board/internal/workers"
)

var log = logging.Named("importer")

// Outcomes recorded per file.
const (
	OutcomeAdded    = "added"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Uploader publishes a file as an upload.
type Uploader interface {
	Upload(ctx context.Context, path string, meta events.UploadMetadata) (*events.DataUpload, error)
}

// Lookup finds an already indexed image by content hash. It returns nil, nil
// for unknown hashes.
type Lookup interface {
	FindImageByHash(ctx context.Context, hash string) (*mediatypes.Image, error)
}

// Config configures an import run.
type Config struct {
	// Workers hashing files in parallel (0 = workers.ForIO(8)).
	Workers int
	// Tags added to every file.
	Tags []string
	// PathTags adds the parent directory names as tags.
	PathTags bool
	// Source recorded on every image.
	Source string
	// SkipHidden skips files and directories starting with ".".
	SkipHidden bool
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{PathTags: true, SkipHidden: true}
}

// Result is the outcome of one file.
type Result struct {
	Path    string
	Hash    string
	Outcome string
	ImageID int64
	Err     error
}

// Summary totals an import run.
type Summary struct {
	Added    int
	Skipped  int
	Rejected int
	Failed   int
	Results  []Result
	Duration time.Duration
}

func (s *Summary) record(r Result) {
	switch r.Outcome {
	case OutcomeAdded:
		s.Added++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeRejected:
		s.Rejected++
	default:
		s.Failed++
	}
	s.Results = append(s.Results, r)
	metrics.ImportFilesTotal.WithLabelValues(r.Outcome).Inc()
}

// Importer runs directory imports.
type Importer struct {
	up     Uploader
	lookup Lookup
	cfg    Config
}

// New returns an Importer publishing through up.
func New(up Uploader, lookup Lookup, cfg Config) *Importer {
	if cfg.Workers <= 0 {
		cfg.Workers = workers.ForIO(8)
	}
	return &Importer{up: up, lookup: lookup, cfg: cfg}
}

type fileJob struct {
	path    string
	relPath string
}

type hashedFile struct {
	fileJob
	hash string
	err  error
}

// Import walks dir and uploads every file. Per-file failures are reported in
// the Summary; the returned error is set only when the walk itself fails or
// ctx is cancelled.
func (im *Importer) Import(ctx context.Context, dir string) (Summary, error) {
	var summary Summary
	start := time.Now()

	info, err := filesystem.StatWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return summary, fmt.Errorf("import %s: %w", dir, err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("import %s: not a directory", dir)
	}

	log.Info("Importing %s with %d hashing workers", dir, im.cfg.Workers)
	metrics.ImportWorkers.Set(float64(im.cfg.Workers))

	jobs := make(chan fileJob, 64)
	hashed := make(chan hashedFile, 64)

	var walkErr error
	go func() {
		defer close(jobs)
		walkErr = im.walk(ctx, dir, jobs)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(hashed)
		workers.Run(ctx, im.cfg.Workers, jobs, func(_ context.Context, job fileJob) {
			hash, _, err := filesystem.HashFile(job.path)
			hashed <- hashedFile{fileJob: job, hash: hash, err: err}
		})
	}()

	// Uploads are published serially; the bus serializes them anyway.
	for f := range hashed {
		if ctx.Err() != nil {
			continue
		}
		summary.record(im.ingest(ctx, f))
	}
	wg.Wait()

	summary.Duration = time.Since(start)
	log.Info("Import of %s complete in %v: %d added, %d skipped, %d rejected, %d failed",
		dir, summary.Duration, summary.Added, summary.Skipped, summary.Rejected, summary.Failed)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, walkErr
}

func (im *Importer) walk(ctx context.Context, dir string, jobs chan<- fileJob) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if err != nil {
			if path == dir {
				return err
			}
			log.Warn("Error accessing path %s: %v", path, err)
			return nil
		}
		if path == dir {
			return nil
		}

		if im.cfg.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return nil //nolint:nilerr // skip this file, keep walking
		}

		select {
		case jobs <- fileJob{path: path, relPath: relPath}:
		case <-ctx.Done():
			return fs.SkipAll
		}
		return nil
	})
}

func (im *Importer) ingest(ctx context.Context, f hashedFile) Result {
	r := Result{Path: f.relPath, Hash: f.hash}
	if f.err != nil {
		r.Outcome, r.Err = OutcomeFailed, f.err
		log.Warn("Hashing %s: %v", f.relPath, f.err)
		return r
	}

	if im.lookup != nil {
		existing, err := im.lookup.FindImageByHash(ctx, f.hash)
		if err != nil {
			r.Outcome, r.Err = OutcomeFailed, err
			return r
		}
		if existing != nil {
			r.Outcome, r.ImageID = OutcomeSkipped, existing.ID
			log.Debug("%s already indexed as image %d", f.relPath, existing.ID)
			return r
		}
	}

	meta := events.UploadMetadata{
		Filename: filepath.Base(f.path),
		Source:   im.cfg.Source,
		Tags:     im.tagsFor(f.relPath),
	}
	up, err := im.up.Upload(ctx, f.path, meta)
	switch {
	case events.IsRejected(err):
		r.Outcome, r.Err = OutcomeRejected, err
		log.Info("%s rejected: %s", f.relPath, events.Message(err))
	case err != nil:
		r.Outcome, r.Err = OutcomeFailed, err
		log.Warn("%s failed: %v", f.relPath, err)
	case up.Handler == "":
		r.Outcome = OutcomeSkipped
	default:
		r.Outcome, r.ImageID = OutcomeAdded, up.ImageID
	}
	return r
}

// tagsFor returns the configured tags plus the directory components of rel.
func (im *Importer) tagsFor(rel string) []string {
	tags := append([]string(nil), im.cfg.Tags...)
	if !im.cfg.PathTags {
		return tags
	}
	parent := filepath.Dir(rel)
	if parent == "." {
		return tags
	}
	for _, part := range strings.Split(filepath.ToSlash(parent), "/") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, strings.ReplaceAll(part, " ", "_"))
		}
	}
	return tags
}

// Err joins the errors of the files that failed outright.
func (s Summary) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return errors.Join(errs...)
}
