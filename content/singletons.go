package content

import (
	"context"
	"database/sql"
)

// Biography and Settings are singleton-ish tables: only the row with the
// lowest id is ever read or written. The get-or-create helpers below are the
// single place that encodes that rule.

// GetOrCreateBiography returns the first biography row, creating an empty
// one when the table is empty.
func (s *Store) GetOrCreateBiography(ctx context.Context) (Biography, error) {
	var b Biography
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, content, image_url FROM biography ORDER BY id LIMIT 1`).
			Scan(&b.ID, &b.Content, &b.ImageURL)
		if err != sql.ErrNoRows {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO biography (content, image_url) VALUES ('', '')`)
		if err != nil {
			return err
		}
		b = Biography{}
		b.ID, err = res.LastInsertId()
		return err
	})
	return b, err
}

// SaveBiography writes content and image URL to the first biography row.
func (s *Store) SaveBiography(ctx context.Context, content, imageURL string) (Biography, error) {
	b, err := s.GetOrCreateBiography(ctx)
	if err != nil {
		return Biography{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE biography SET content = ?, image_url = ? WHERE id = ?`, content, imageURL, b.ID); err != nil {
		return Biography{}, err
	}
	b.Content = content
	b.ImageURL = imageURL
	return b, nil
}

// GetOrCreateSettings returns the first settings row, creating an empty one
// when the table is empty.
func (s *Store) GetOrCreateSettings(ctx context.Context) (Settings, error) {
	var st Settings
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, navbar_title, contact_email, contact_phone FROM settings ORDER BY id LIMIT 1`).
			Scan(&st.ID, &st.NavbarTitle, &st.ContactEmail, &st.ContactPhone)
		if err != sql.ErrNoRows {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO settings (navbar_title, contact_email, contact_phone) VALUES ('', '', '')`)
		if err != nil {
			return err
		}
		st = Settings{}
		st.ID, err = res.LastInsertId()
		return err
	})
	return st, err
}

// SaveSettings writes st to the first settings row. st.ID is ignored.
func (s *Store) SaveSettings(ctx context.Context, st Settings) (Settings, error) {
	cur, err := s.GetOrCreateSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	st.ID = cur.ID
	_, err = s.db.ExecContext(ctx, `UPDATE settings SET navbar_title = ?, contact_email = ?, contact_phone = ? WHERE id = ?`,
		st.NavbarTitle, st.ContactEmail, st.ContactPhone, st.ID)
	if err != nil {
		return Settings{}, err
	}
	return st, nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertBiography(ctx context.Context, q queryer, b Biography) error {
	_, err := q.ExecContext(ctx, `INSERT INTO biography (id, content, image_url) VALUES (?, ?, ?)`,
		explicitID(b.ID), b.Content, b.ImageURL)
	return rowError("biography", b.ID, err)
}

func insertSettings(ctx context.Context, q queryer, st Settings) error {
	_, err := q.ExecContext(ctx, `INSERT INTO settings (id, navbar_title, contact_email, contact_phone) VALUES (?, ?, ?, ?)`,
		explicitID(st.ID), st.NavbarTitle, st.ContactEmail, st.ContactPhone)
	return rowError("settings", st.ID, err)
}
