package database

import (
	"context"
	"database/sql"
	"fmt"

	"media-board/internal/mediatypes"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// setTags replaces the tag list of image id, creating tags as needed.
// Tags are stored in the given order after normalization.
func setTags(ctx context.Context, tx *sql.Tx, id int64, tags []string) error {
	done := observeQuery("set_tags")

	if _, err := tx.ExecContext(ctx, "DELETE FROM image_tags WHERE image_id = ?", id); err != nil {
		done(err)
		return err
	}

	for pos, name := range mediatypes.NormalizeTags(tags) {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
			done(err)
			return fmt.Errorf("failed to create tag %q: %w", name, err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO image_tags (image_id, tag_id, position)
			SELECT ?, id, ? FROM tags WHERE name = ? COLLATE NOCASE
		`, id, pos, name)
		if err != nil {
			done(err)
			return fmt.Errorf("failed to tag image %d with %q: %w", id, name, err)
		}
	}

	done(nil)
	return nil
}

func loadTags(ctx context.Context, q querier, id int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.name FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.image_id = ?
		ORDER BY it.position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}
