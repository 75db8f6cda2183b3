package admin

import (
	"context"
	"io"
	"net/url"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

const paintingNotFound = "Painting not found."

// paintingFromForm applies the form fields onto p.
func paintingFromForm(p *content.Painting, f url.Values) (string, bool) {
	title := formString(f, "title")
	if title == "" {
		return "Title is required.", false
	}
	price, err := parsePrice(formString(f, "price"))
	if err != nil {
		return "Price must be a number.", false
	}
	width, err := parseDimension(formString(f, "width"))
	if err != nil {
		return "Width and height must be whole numbers.", false
	}
	height, err := parseDimension(formString(f, "height"))
	if err != nil {
		return "Width and height must be whole numbers.", false
	}

	p.Title = title
	p.Slug = content.Slugify(formString(f, "slug"))
	p.Description = formString(f, "description")
	p.Price = price
	p.Width = width
	p.Height = height
	p.Sold = formBool(f, "sold")
	p.SeoTitle = formString(f, "seoTitle")
	p.SeoDescription = formString(f, "seoDescription")
	p.SeoAltText = formString(f, "seoAltText")
	p.MarketplaceURL = formString(f, "marketplaceUrl")
	return "", true
}

func (s *Service) saveImage(dir string, img *File) (string, error) {
	stored, err := s.assets.SaveImage(dir, io.NewSectionReader(img.Content, 0, img.Size), img.Name)
	if err != nil {
		return "", err
	}
	return stored.URL, nil
}

// CreatePainting adds a painting. An image is required.
func (s *Service) CreatePainting(ctx context.Context, f url.Values, img *File) Result {
	var p content.Painting
	if msg, valid := paintingFromForm(&p, f); !valid {
		return fail(msg)
	}
	if !hasFile(img) {
		return fail("An image is required.")
	}
	if img.Size > assets.MaxUploadSize {
		return fail("The image is too large.")
	}
	imageURL, err := s.saveImage(assets.PaintingsDir, img)
	if err != nil {
		s.logger.Warnf("[admin] painting image: %v", err)
		return fail("The image could not be read. Use a JPEG, PNG or WebP file.")
	}
	p.ImageURL = imageURL

	if err := s.store.CreatePainting(ctx, &p); err != nil {
		s.assets.Remove(imageURL)
		return s.failure("create painting", err, "Could not create the painting.", "")
	}
	s.invalidate(cache.ForPainting(p.ID, p.Ref()))
	return ok("Painting created.", p)
}

// UpdatePainting overwrites a painting. A new image replaces the old file.
func (s *Service) UpdatePainting(ctx context.Context, id int64, f url.Values, img *File) Result {
	p, err := s.store.GetPainting(ctx, id)
	if err != nil {
		return s.failure("load painting", err, "Could not update the painting.", paintingNotFound)
	}
	oldRef, oldImage := p.Ref(), p.ImageURL
	if msg, valid := paintingFromForm(&p, f); !valid {
		return fail(msg)
	}

	newImage := ""
	if hasFile(img) {
		if img.Size > assets.MaxUploadSize {
			return fail("The image is too large.")
		}
		newImage, err = s.saveImage(assets.PaintingsDir, img)
		if err != nil {
			s.logger.Warnf("[admin] painting image: %v", err)
			return fail("The image could not be read. Use a JPEG, PNG or WebP file.")
		}
		p.ImageURL = newImage
	}

	if err := s.store.UpdatePainting(ctx, p); err != nil {
		s.assets.Remove(newImage)
		return s.failure("update painting", err, "Could not update the painting.", paintingNotFound)
	}
	if newImage != "" && oldImage != newImage {
		s.assets.Remove(oldImage)
	}
	s.invalidate(cache.ForPainting(p.ID, oldRef, p.Ref()))
	return ok("Painting updated.", p)
}

// DeletePainting removes a painting and, best-effort, its image.
func (s *Service) DeletePainting(ctx context.Context, id int64) Result {
	p, err := s.store.GetPainting(ctx, id)
	if err != nil {
		return s.failure("load painting", err, "Could not delete the painting.", paintingNotFound)
	}
	if err := s.store.DeletePainting(ctx, id); err != nil {
		return s.failure("delete painting", err, "Could not delete the painting.", "")
	}
	s.assets.Remove(p.ImageURL)
	s.invalidate(cache.ForPainting(p.ID, p.Ref()))
	return ok("Painting deleted.", nil)
}

// ToggleSold flips the sold flag.
func (s *Service) ToggleSold(ctx context.Context, id int64) Result {
	p, err := s.store.GetPainting(ctx, id)
	if err != nil {
		return s.failure("load painting", err, "Could not update the painting.", paintingNotFound)
	}
	p.Sold = !p.Sold
	if err := s.store.SetPaintingSold(ctx, id, p.Sold); err != nil {
		return s.failure("toggle sold", err, "Could not update the painting.", paintingNotFound)
	}
	s.invalidate(cache.ForPainting(p.ID, p.Ref()))
	msg := "Painting marked as available."
	if p.Sold {
		msg = "Painting marked as sold."
	}
	return ok(msg, p)
}
