package content

import (
	"context"
	"database/sql"
	"fmt"
)

// Snapshot reads every row of every exportable table. Tables are small, so
// this is a plain full scan without pagination.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Paintings, err = listPaintings(ctx, s.db, `ORDER BY id`); err != nil {
		return Snapshot{}, fmt.Errorf("read paintings: %w", err)
	}
	if snap.Biography, err = listBiography(ctx, s.db); err != nil {
		return Snapshot{}, fmt.Errorf("read biography: %w", err)
	}
	if snap.Reviews, err = listReviews(ctx, s.db, `ORDER BY id`); err != nil {
		return Snapshot{}, fmt.Errorf("read reviews: %w", err)
	}
	if snap.ExternalLinks, err = listLinks(ctx, s.db); err != nil {
		return Snapshot{}, fmt.Errorf("read external links: %w", err)
	}
	if snap.SeoMetadata, err = listSeo(ctx, s.db); err != nil {
		return Snapshot{}, fmt.Errorf("read seo metadata: %w", err)
	}
	if snap.Settings, err = listSettings(ctx, s.db); err != nil {
		return Snapshot{}, fmt.Errorf("read settings: %w", err)
	}
	return snap, nil
}

// Replace deletes every exportable row and inserts snap in its place, all in
// one transaction. Rows keep their ids, and every table's AUTOINCREMENT
// counter is then reset to MAX(id) so the next insert gets MAX(id)+1.
//
// On any error the transaction is rolled back and the store is unchanged.
// Errors caused by the rows themselves wrap ErrInvalidRow.
func (s *Store) Replace(ctx context.Context, snap Snapshot) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range Tables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, p := range snap.Paintings {
			if err := insertPainting(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, b := range snap.Biography {
			if err := insertBiography(ctx, tx, b); err != nil {
				return err
			}
		}
		for _, rv := range snap.Reviews {
			if err := insertReview(ctx, tx, rv); err != nil {
				return err
			}
		}
		for _, l := range snap.ExternalLinks {
			if err := insertLink(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, m := range snap.SeoMetadata {
			if err := insertSeo(ctx, tx, m); err != nil {
				return err
			}
		}
		for _, st := range snap.Settings {
			if err := insertSettings(ctx, tx, st); err != nil {
				return err
			}
		}
		return resetSequences(ctx, tx)
	})
}

func resetSequences(ctx context.Context, q queryer) error {
	for _, table := range Tables {
		if _, err := q.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO sqlite_sequence (name, seq) SELECT ?, COALESCE(MAX(id), 0) FROM `+table, table); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}

func listBiography(ctx context.Context, q queryer) ([]Biography, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, content, image_url FROM biography ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Biography
	for rows.Next() {
		var b Biography
		if err := rows.Scan(&b.ID, &b.Content, &b.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func listSettings(ctx context.Context, q queryer) ([]Settings, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, navbar_title, contact_email, contact_phone FROM settings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settings
	for rows.Next() {
		var st Settings
		if err := rows.Scan(&st.ID, &st.NavbarTitle, &st.ContactEmail, &st.ContactPhone); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
