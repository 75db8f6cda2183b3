package content

import (
	"context"
	"database/sql"
	"fmt"
)

// ListLinks returns the external links in display order.
func (s *Store) ListLinks(ctx context.Context) ([]ExternalLink, error) {
	return listLinks(ctx, s.db)
}

func listLinks(ctx context.Context, q queryer) ([]ExternalLink, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, label, url, icon, sort_order FROM external_links ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ExternalLink
	for rows.Next() {
		var l ExternalLink
		if err := rows.Scan(&l.ID, &l.Label, &l.URL, &l.Icon, &l.Order); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// GetLink returns one external link by id.
func (s *Store) GetLink(ctx context.Context, id int64) (ExternalLink, error) {
	var l ExternalLink
	err := s.db.QueryRowContext(ctx, `SELECT id, label, url, icon, sort_order FROM external_links WHERE id = ?`, id).
		Scan(&l.ID, &l.Label, &l.URL, &l.Icon, &l.Order)
	return l, notFound(err)
}

// CreateLink appends l at the end of the list unless l.Order is set.
func (s *Store) CreateLink(ctx context.Context, l *ExternalLink) error {
	if l.Order == 0 {
		if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM external_links`).Scan(&l.Order); err != nil {
			return err
		}
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO external_links (label, url, icon, sort_order) VALUES (?, ?, ?, ?)`,
		l.Label, l.URL, l.Icon, l.Order)
	if err != nil {
		return err
	}
	l.ID, err = res.LastInsertId()
	return err
}

// UpdateLink overwrites the link with l.ID.
func (s *Store) UpdateLink(ctx context.Context, l ExternalLink) error {
	res, err := s.db.ExecContext(ctx, `UPDATE external_links SET label = ?, url = ?, icon = ?, sort_order = ? WHERE id = ?`,
		l.Label, l.URL, l.Icon, l.Order, l.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteLink removes a link by id.
func (s *Store) DeleteLink(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM external_links WHERE id = ?`, id)
	return err
}

// ReorderLinks assigns sort_order 1..n following ids. Links missing from
// ids keep their current order after the listed ones.
func (s *Store) ReorderLinks(ctx context.Context, ids []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE external_links SET sort_order = sort_order + ?`, len(ids)+1); err != nil {
			return err
		}
		for i, id := range ids {
			res, err := tx.ExecContext(ctx, `UPDATE external_links SET sort_order = ? WHERE id = ?`, i+1, id)
			if err != nil {
				return err
			}
			if err := affected(res); err != nil {
				return fmt.Errorf("link %d: %w", id, err)
			}
		}
		return nil
	})
}

func insertLink(ctx context.Context, q queryer, l ExternalLink) error {
	if l.Icon != "" && !IsLinkIcon(l.Icon) {
		return fmt.Errorf("%w: link %d has unknown icon %q", ErrInvalidRow, l.ID, l.Icon)
	}
	_, err := q.ExecContext(ctx, `INSERT INTO external_links (id, label, url, icon, sort_order) VALUES (?, ?, ?, ?, ?)`,
		explicitID(l.ID), l.Label, l.URL, l.Icon, l.Order)
	return rowError("external link", l.ID, err)
}
