package content

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const reviewColumns = `id, slug, title, author, source, date, type, content, image_url, seo_title, seo_description, created_at`

func scanReview(r rowScanner) (Review, error) {
	var (
		rv      Review
		slug    sql.NullString
		created string
	)
	if err := r.Scan(&rv.ID, &slug, &rv.Title, &rv.Author, &rv.Source, &rv.Date, &rv.Type, &rv.Content,
		&rv.ImageURL, &rv.SeoTitle, &rv.SeoDescription, &created); err != nil {
		return Review{}, err
	}
	rv.Slug = slug.String
	rv.CreatedAt = parseTime(created)
	return rv, nil
}

// ListReviews returns every review, newest first.
func (s *Store) ListReviews(ctx context.Context) ([]Review, error) {
	return listReviews(ctx, s.db, `ORDER BY created_at DESC, id DESC`)
}

func listReviews(ctx context.Context, q queryer, order string) ([]Review, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// GetReview returns a review by id.
func (s *Store) GetReview(ctx context.Context, id int64) (Review, error) {
	rv, err := scanReview(s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	return rv, notFound(err)
}

// GetReviewByRef returns a review by slug, falling back to a numeric id.
func (s *Store) GetReviewByRef(ctx context.Context, ref string) (Review, error) {
	rv, err := scanReview(s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE slug = ?`, ref))
	if err == nil {
		return rv, nil
	}
	if err != sql.ErrNoRows {
		return Review{}, err
	}
	id, convErr := strconv.ParseInt(ref, 10, 64)
	if convErr != nil {
		return Review{}, ErrNotFound
	}
	return s.GetReview(ctx, id)
}

// CreateReview inserts rv and sets its ID and CreatedAt.
func (s *Store) CreateReview(ctx context.Context, rv *Review) error {
	if rv.Type == "" {
		rv.Type = ReviewTypeReview
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO reviews
		(slug, title, author, source, date, type, content, image_url, seo_title, seo_description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(rv.Slug), rv.Title, rv.Author, rv.Source, rv.Date, rv.Type, rv.Content, rv.ImageURL,
		rv.SeoTitle, rv.SeoDescription, formatTime(rv.CreatedAt))
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %v", ErrInvalidRow, err)
		}
		return err
	}
	rv.ID, err = res.LastInsertId()
	return err
}

// UpdateReview overwrites every editable column of the review with rv.ID.
func (s *Store) UpdateReview(ctx context.Context, rv Review) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reviews SET
		slug = ?, title = ?, author = ?, source = ?, date = ?, type = ?, content = ?, image_url = ?,
		seo_title = ?, seo_description = ?
		WHERE id = ?`,
		nullString(rv.Slug), rv.Title, rv.Author, rv.Source, rv.Date, rv.Type, rv.Content, rv.ImageURL,
		rv.SeoTitle, rv.SeoDescription, rv.ID)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %v", ErrInvalidRow, err)
		}
		return err
	}
	return affected(res)
}

// DeleteReview removes a review by id.
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

// ReviewAuthors returns the set of authors that already have a review.
func (s *Store) ReviewAuthors(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT author FROM reviews`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	return set, rows.Err()
}

func insertReview(ctx context.Context, q queryer, rv Review) error {
	if rv.Type != "" && !IsReviewType(rv.Type) {
		return fmt.Errorf("%w: review %d has unknown type %q", ErrInvalidRow, rv.ID, rv.Type)
	}
	if rv.Type == "" {
		rv.Type = ReviewTypeReview
	}
	_, err := q.ExecContext(ctx, `INSERT INTO reviews
		(id, slug, title, author, source, date, type, content, image_url, seo_title, seo_description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		explicitID(rv.ID), nullString(rv.Slug), rv.Title, rv.Author, rv.Source, rv.Date, rv.Type, rv.Content, rv.ImageURL,
		rv.SeoTitle, rv.SeoDescription, formatTime(rv.CreatedAt))
	return rowError("review", rv.ID, err)
}
