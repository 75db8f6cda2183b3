package content

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const paintingColumns = `id, slug, title, description, price, width, height, image_url, sold,
	seo_title, seo_description, seo_alt_text, marketplace_url, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPainting(r rowScanner) (Painting, error) {
	var (
		p       Painting
		slug    sql.NullString
		price   sql.NullFloat64
		sold    int
		created string
	)
	if err := r.Scan(&p.ID, &slug, &p.Title, &p.Description, &price, &p.Width, &p.Height, &p.ImageURL, &sold,
		&p.SeoTitle, &p.SeoDescription, &p.SeoAltText, &p.MarketplaceURL, &created); err != nil {
		return Painting{}, err
	}
	p.Slug = slug.String
	p.Price = floatPtr(price)
	p.Sold = sold == 1
	p.CreatedAt = parseTime(created)
	return p, nil
}

// ListPaintings returns every painting, newest first.
func (s *Store) ListPaintings(ctx context.Context) ([]Painting, error) {
	return listPaintings(ctx, s.db, `ORDER BY created_at DESC, id DESC`)
}

func listPaintings(ctx context.Context, q queryer, order string) ([]Painting, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+paintingColumns+` FROM paintings `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paintings []Painting
	for rows.Next() {
		p, err := scanPainting(rows)
		if err != nil {
			return nil, err
		}
		paintings = append(paintings, p)
	}
	return paintings, rows.Err()
}

// GetPainting returns a painting by id.
func (s *Store) GetPainting(ctx context.Context, id int64) (Painting, error) {
	p, err := scanPainting(s.db.QueryRowContext(ctx, `SELECT `+paintingColumns+` FROM paintings WHERE id = ?`, id))
	return p, notFound(err)
}

// GetPaintingByRef returns a painting by slug, falling back to a numeric id.
func (s *Store) GetPaintingByRef(ctx context.Context, ref string) (Painting, error) {
	p, err := scanPainting(s.db.QueryRowContext(ctx, `SELECT `+paintingColumns+` FROM paintings WHERE slug = ?`, ref))
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return Painting{}, err
	}
	id, convErr := strconv.ParseInt(ref, 10, 64)
	if convErr != nil {
		return Painting{}, ErrNotFound
	}
	return s.GetPainting(ctx, id)
}

// CreatePainting inserts p and sets its ID and CreatedAt.
func (s *Store) CreatePainting(ctx context.Context, p *Painting) error {
	if p.ImageURL == "" {
		return fmt.Errorf("%w: painting image url is required", ErrInvalidRow)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO paintings
		(slug, title, description, price, width, height, image_url, sold, seo_title, seo_description, seo_alt_text, marketplace_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(p.Slug), p.Title, p.Description, nullFloat(p.Price), p.Width, p.Height, p.ImageURL, boolInt(p.Sold),
		p.SeoTitle, p.SeoDescription, p.SeoAltText, p.MarketplaceURL, formatTime(p.CreatedAt))
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %v", ErrInvalidRow, err)
		}
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdatePainting overwrites every editable column of the painting with p.ID.
func (s *Store) UpdatePainting(ctx context.Context, p Painting) error {
	if p.ImageURL == "" {
		return fmt.Errorf("%w: painting image url is required", ErrInvalidRow)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE paintings SET
		slug = ?, title = ?, description = ?, price = ?, width = ?, height = ?, image_url = ?, sold = ?,
		seo_title = ?, seo_description = ?, seo_alt_text = ?, marketplace_url = ?
		WHERE id = ?`,
		nullString(p.Slug), p.Title, p.Description, nullFloat(p.Price), p.Width, p.Height, p.ImageURL, boolInt(p.Sold),
		p.SeoTitle, p.SeoDescription, p.SeoAltText, p.MarketplaceURL, p.ID)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %v", ErrInvalidRow, err)
		}
		return err
	}
	return affected(res)
}

// SetPaintingSold flips the sold flag of one painting.
func (s *Store) SetPaintingSold(ctx context.Context, id int64, sold bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE paintings SET sold = ? WHERE id = ?`, boolInt(sold), id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeletePainting removes a painting by id. Deleting a missing row is not an error.
func (s *Store) DeletePainting(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM paintings WHERE id = ?`, id)
	return err
}

// PaintingImageURLs returns the set of image URLs referenced by paintings.
func (s *Store) PaintingImageURLs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT image_url FROM paintings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		set[u] = struct{}{}
	}
	return set, rows.Err()
}

func insertPainting(ctx context.Context, q queryer, p Painting) error {
	if p.ImageURL == "" {
		return fmt.Errorf("%w: painting %d has no imageUrl", ErrInvalidRow, p.ID)
	}
	_, err := q.ExecContext(ctx, `INSERT INTO paintings
		(id, slug, title, description, price, width, height, image_url, sold, seo_title, seo_description, seo_alt_text, marketplace_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		explicitID(p.ID), nullString(p.Slug), p.Title, p.Description, nullFloat(p.Price), p.Width, p.Height, p.ImageURL, boolInt(p.Sold),
		p.SeoTitle, p.SeoDescription, p.SeoAltText, p.MarketplaceURL, formatTime(p.CreatedAt))
	return rowError("painting", p.ID, err)
}

// explicitID keeps archived ids; rows without one get a fresh id.
func explicitID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowError classifies an insert failure during a restore.
func rowError(kind string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if isConstraintError(err) {
		return fmt.Errorf("%w: %s %d: %v", ErrInvalidRow, kind, id, err)
	}
	return fmt.Errorf("insert %s %d: %w", kind, id, err)
}
