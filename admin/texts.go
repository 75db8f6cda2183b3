package admin

import (
	"context"
	"net/url"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

const reviewNotFound = "Review not found."

// Biography returns the biography, preferring the canonical file over the
// database row.
func (s *Service) Biography(ctx context.Context) (content.Biography, error) {
	b, err := s.store.GetOrCreateBiography(ctx)
	if err != nil {
		return content.Biography{}, err
	}
	if text, ok := s.assets.ReadBiography(); ok {
		b.Content = text
	}
	return b, nil
}

// SaveBiography writes the biography to the canonical file and to the
// database. An uploaded image replaces the portrait. The file goes first: it
// wins on read, so a failed save must leave the previous file in place.
func (s *Service) SaveBiography(ctx context.Context, f url.Values, img *File) Result {
	text := f.Get("content")
	cur, err := s.store.GetOrCreateBiography(ctx)
	if err != nil {
		return s.failure("load biography", err, "Could not save the biography.", "")
	}

	imageURL := cur.ImageURL
	if hasFile(img) {
		if img.Size > assets.MaxUploadSize {
			return fail("The image is too large.")
		}
		imageURL, err = s.saveImage(assets.BiographyDir, img)
		if err != nil {
			s.logger.Warnf("[admin] biography image: %v", err)
			return fail("The image could not be read. Use a JPEG, PNG or WebP file.")
		}
	} else if formBool(f, "removeImage") {
		imageURL = ""
	}
	discardImage := func() {
		if imageURL != cur.ImageURL {
			s.assets.Remove(imageURL)
		}
	}

	prev, hadFile := s.assets.ReadBiography()
	if err := s.assets.WriteBiography(text); err != nil {
		discardImage()
		s.logger.Errorf("[admin] write %s: %v", assets.BiographyFile, err)
		return fail("Could not save the biography.")
	}

	b, err := s.store.SaveBiography(ctx, text, imageURL)
	if err != nil {
		discardImage()
		s.restoreBiographyFile(prev, hadFile)
		return s.failure("save biography", err, "Could not save the biography.", "")
	}
	if imageURL != cur.ImageURL {
		s.assets.Remove(cur.ImageURL)
	}
	s.invalidate(cache.ForBiography())
	return ok("Biography saved.", b)
}

func (s *Service) restoreBiographyFile(prev string, hadFile bool) {
	if !hadFile {
		s.assets.Remove(s.assets.URLFor(assets.BiographyFile))
		return
	}
	if err := s.assets.WriteBiography(prev); err != nil {
		s.logger.Errorf("[admin] restore %s: %v", assets.BiographyFile, err)
	}
}

func reviewFromForm(rv *content.Review, f url.Values) (string, bool) {
	title := formString(f, "title")
	if title == "" {
		return "Title is required.", false
	}
	typ := formString(f, "type")
	if typ == "" {
		typ = content.ReviewTypeReview
	}
	if !content.IsReviewType(typ) {
		return "Unknown review type.", false
	}
	rv.Title = title
	rv.Slug = content.Slugify(formString(f, "slug"))
	rv.Author = formString(f, "author")
	rv.Source = formString(f, "source")
	rv.Date = formString(f, "date")
	rv.Type = typ
	rv.Content = f.Get("content")
	rv.SeoTitle = formString(f, "seoTitle")
	rv.SeoDescription = formString(f, "seoDescription")
	return "", true
}

// CreateReview adds a review, article or post.
func (s *Service) CreateReview(ctx context.Context, f url.Values, img *File) Result {
	var rv content.Review
	if msg, valid := reviewFromForm(&rv, f); !valid {
		return fail(msg)
	}
	if hasFile(img) {
		if img.Size > assets.MaxUploadSize {
			return fail("The image is too large.")
		}
		u, err := s.saveImage(assets.ReviewsDir, img)
		if err != nil {
			s.logger.Warnf("[admin] review image: %v", err)
			return fail("The image could not be read. Use a JPEG, PNG or WebP file.")
		}
		rv.ImageURL = u
	}
	if err := s.store.CreateReview(ctx, &rv); err != nil {
		s.assets.Remove(rv.ImageURL)
		return s.failure("create review", err, "Could not create the review.", "")
	}
	s.invalidate(cache.ForReview(rv.ID, rv.Ref()))
	return ok("Review created.", rv)
}

// UpdateReview overwrites a review.
func (s *Service) UpdateReview(ctx context.Context, id int64, f url.Values, img *File) Result {
	rv, err := s.store.GetReview(ctx, id)
	if err != nil {
		return s.failure("load review", err, "Could not update the review.", reviewNotFound)
	}
	oldRef, oldImage := rv.Ref(), rv.ImageURL
	if msg, valid := reviewFromForm(&rv, f); !valid {
		return fail(msg)
	}
	newImage := ""
	if hasFile(img) {
		if img.Size > assets.MaxUploadSize {
			return fail("The image is too large.")
		}
		newImage, err = s.saveImage(assets.ReviewsDir, img)
		if err != nil {
			s.logger.Warnf("[admin] review image: %v", err)
			return fail("The image could not be read. Use a JPEG, PNG or WebP file.")
		}
		rv.ImageURL = newImage
	}
	if err := s.store.UpdateReview(ctx, rv); err != nil {
		s.assets.Remove(newImage)
		return s.failure("update review", err, "Could not update the review.", reviewNotFound)
	}
	if newImage != "" {
		s.assets.Remove(oldImage)
	}
	s.invalidate(cache.ForReview(rv.ID, oldRef, rv.Ref()))
	return ok("Review updated.", rv)
}

// DeleteReview removes a review and, best-effort, its image.
func (s *Service) DeleteReview(ctx context.Context, id int64) Result {
	rv, err := s.store.GetReview(ctx, id)
	if err != nil {
		return s.failure("load review", err, "Could not delete the review.", reviewNotFound)
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return s.failure("delete review", err, "Could not delete the review.", "")
	}
	s.assets.Remove(rv.ImageURL)
	s.invalidate(cache.ForReview(rv.ID, rv.Ref()))
	return ok("Review deleted.", nil)
}
