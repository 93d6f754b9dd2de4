package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
)

const imageColumns = "id, hash, filename, ext, width, height, filesize, source, locked, rating, posted"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*mediatypes.Image, error) {
	var (
		img    mediatypes.Image
		posted int64
	)
	err := row.Scan(&img.ID, &img.Hash, &img.Filename, &img.Ext, &img.Width, &img.Height,
		&img.Filesize, &img.Source, &img.Locked, &img.Rating, &posted)
	if err != nil {
		return nil, err
	}
	img.Posted = time.Unix(posted, 0)
	return &img, nil
}

// AddImage inserts img with its tags and sets img.ID.
func (d *Database) AddImage(ctx context.Context, img *mediatypes.Image) (int64, error) {
	done := observeQuery("add_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	posted := img.Posted
	if posted.IsZero() {
		posted = time.Now()
	}

	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO images (hash, filename, ext, width, height, filesize, source, locked, rating, posted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, img.Hash, img.Filename, img.Ext, img.Width, img.Height, img.Filesize, img.Source, img.Locked, img.Rating, posted.Unix())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateHash, img.Hash)
			}
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return setTags(ctx, tx, id, img.Tags)
	})
	done(err)
	if err != nil {
		return 0, err
	}

	img.ID = id
	img.Posted = posted
	return id, nil
}

// ReplaceImage swaps the content of image id for img, keeping id, rating,
// lock state and posted time. img.Tags replaces the tag list.
func (d *Database) ReplaceImage(ctx context.Context, id int64, img *mediatypes.Image) error {
	done := observeQuery("replace_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE images SET hash = ?, filename = ?, ext = ?, width = ?, height = ?, filesize = ?, source = ?
			WHERE id = ?
		`, img.Hash, img.Filename, img.Ext, img.Width, img.Height, img.Filesize, img.Source, id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateHash, img.Hash)
			}
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return setTags(ctx, tx, id, img.Tags)
	})
	d.cache.Remove(id)
	done(err)
	if err != nil {
		return err
	}
	img.ID = id
	return nil
}

// FindImageByID returns the image with id, or nil, nil when there is none.
func (d *Database) FindImageByID(ctx context.Context, id int64) (*mediatypes.Image, error) {
	if cached, ok := d.cache.Get(id); ok {
		metrics.DBImageCacheLookups.WithLabelValues("hit").Inc()
		img := cached
		img.Tags = append([]string(nil), cached.Tags...)
		return &img, nil
	}
	metrics.DBImageCacheLookups.WithLabelValues("miss").Inc()

	// Writers invalidate the cache under the write lock, so the fill has to
	// happen inside the same read lock as the query.
	d.mu.RLock()
	defer d.mu.RUnlock()

	done := observeQuery("find_image_by_id")
	img, err := d.queryImage(ctx, "id = ?", id)
	done(err)
	if err != nil || img == nil {
		return img, err
	}

	stored := *img
	stored.Tags = append([]string(nil), img.Tags...)
	d.cache.Add(id, stored)
	return img, nil
}

// FindImageByHash returns the image with hash, or nil, nil when there is none.
func (d *Database) FindImageByHash(ctx context.Context, hash string) (*mediatypes.Image, error) {
	done := observeQuery("find_image_by_hash")
	img, err := d.findImage(ctx, "hash = ?", hash)
	done(err)
	return img, err
}

func (d *Database) findImage(ctx context.Context, where string, arg any) (*mediatypes.Image, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.queryImage(ctx, where, arg)
}

// queryImage reads one image row and its tags. Callers hold d.mu.
func (d *Database) queryImage(ctx context.Context, where string, arg any) (*mediatypes.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := scanImage(d.db.QueryRowContext(ctx, "SELECT "+imageColumns+" FROM images WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if img.Tags, err = loadTags(ctx, d.db, img.ID); err != nil {
		return nil, err
	}
	return img, nil
}

// ListImages returns up to limit images ordered by id, starting after afterID.
func (d *Database) ListImages(ctx context.Context, afterID int64, limit int) ([]*mediatypes.Image, error) {
	done := observeQuery("list_images")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT "+imageColumns+" FROM images WHERE id > ? ORDER BY id LIMIT ?", afterID, limit)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var out []*mediatypes.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			done(err)
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	for _, img := range out {
		if img.Tags, err = loadTags(ctx, d.db, img.ID); err != nil {
			done(err)
			return nil, err
		}
	}
	done(nil)
	return out, nil
}

// SetRating stores rating for image id.
func (d *Database) SetRating(ctx context.Context, id int64, rating string) error {
	return d.updateColumn(ctx, "set_rating", id, "rating", rating)
}

// SetLocked stores the lock flag for image id.
func (d *Database) SetLocked(ctx context.Context, id int64, locked bool) error {
	return d.updateColumn(ctx, "set_locked", id, "locked", locked)
}

func (d *Database) updateColumn(ctx context.Context, op string, id int64, column string, value any) error {
	done := observeQuery(op)

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, "UPDATE images SET "+column+" = ? WHERE id = ?", value, id)
	if err == nil {
		var n int64
		if n, err = res.RowsAffected(); err == nil && n == 0 {
			err = fmt.Errorf("%w: %d", ErrNotFound, id)
		}
	}
	d.cache.Remove(id)
	done(err)
	return err
}

// LibraryStats returns image counts per extension and the tag count.
func (d *Database) LibraryStats(ctx context.Context) (metrics.Stats, error) {
	done := observeQuery("count_images")

	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := metrics.Stats{ImagesByExt: make(map[string]int)}

	rows, err := d.db.QueryContext(ctx, "SELECT ext, COUNT(*) FROM images GROUP BY ext")
	if err != nil {
		done(err)
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ext   string
			count int
		)
		if err := rows.Scan(&ext, &count); err != nil {
			done(err)
			return stats, err
		}
		stats.ImagesByExt[ext] = count
	}
	if err := rows.Err(); err != nil {
		done(err)
		return stats, err
	}

	err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&stats.TotalTags)
	done(err)
	return stats, err
}
