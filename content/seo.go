package content

import (
	"context"
	"fmt"
)

// ListSeo returns the SEO rows that exist, keyed by page key.
func (s *Store) ListSeo(ctx context.Context) (map[string]SeoMetadata, error) {
	rows, err := listSeo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make(map[string]SeoMetadata, len(rows))
	for _, m := range rows {
		out[m.PageKey] = m
	}
	return out, nil
}

func listSeo(ctx context.Context, q queryer) ([]SeoMetadata, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, page_key, title, subtitle, h1, description, image_alt FROM seo_metadata ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeoMetadata
	for rows.Next() {
		var m SeoMetadata
		if err := rows.Scan(&m.ID, &m.PageKey, &m.Title, &m.Subtitle, &m.H1, &m.Description, &m.ImageAlt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetSeo returns the SEO row for key. A missing row yields a zero value with
// PageKey set, so callers can always fall back to their own defaults.
func (s *Store) GetSeo(ctx context.Context, key string) (SeoMetadata, error) {
	m := SeoMetadata{PageKey: key}
	err := s.db.QueryRowContext(ctx, `SELECT id, page_key, title, subtitle, h1, description, image_alt FROM seo_metadata WHERE page_key = ?`, key).
		Scan(&m.ID, &m.PageKey, &m.Title, &m.Subtitle, &m.H1, &m.Description, &m.ImageAlt)
	if err := notFound(err); err != nil && err != ErrNotFound {
		return SeoMetadata{}, err
	}
	return m, nil
}

// SaveSeo upserts the SEO row of m.PageKey.
func (s *Store) SaveSeo(ctx context.Context, m SeoMetadata) error {
	if !IsPageKey(m.PageKey) {
		return fmt.Errorf("%w: unknown page key %q", ErrInvalidRow, m.PageKey)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seo_metadata (page_key, title, subtitle, h1, description, image_alt) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_key) DO UPDATE SET
			title = excluded.title, subtitle = excluded.subtitle, h1 = excluded.h1,
			description = excluded.description, image_alt = excluded.image_alt`,
		m.PageKey, m.Title, m.Subtitle, m.H1, m.Description, m.ImageAlt)
	return err
}

func insertSeo(ctx context.Context, q queryer, m SeoMetadata) error {
	if !IsPageKey(m.PageKey) {
		return fmt.Errorf("%w: seo row %d has unknown page key %q", ErrInvalidRow, m.ID, m.PageKey)
	}
	_, err := q.ExecContext(ctx, `INSERT INTO seo_metadata (id, page_key, title, subtitle, h1, description, image_alt) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		explicitID(m.ID), m.PageKey, m.Title, m.Subtitle, m.H1, m.Description, m.ImageAlt)
	return rowError("seo metadata", m.ID, err)
}
