package admin

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

const linkNotFound = "Link not found."

// SaveSettings updates the navbar title and contact details.
func (s *Service) SaveSettings(ctx context.Context, f url.Values) Result {
	st := content.Settings{
		NavbarTitle:  formString(f, "navbarTitle"),
		ContactEmail: formString(f, "contactEmail"),
		ContactPhone: formString(f, "contactPhone"),
	}
	if st.ContactEmail != "" {
		if _, err := mail.ParseAddress(st.ContactEmail); err != nil {
			return fail("Contact email is invalid.")
		}
	}
	saved, err := s.store.SaveSettings(ctx, st)
	if err != nil {
		return s.failure("save settings", err, "Could not save the settings.", "")
	}
	s.invalidate(cache.ForSettings())
	return ok("Settings saved.", saved)
}

func linkFromForm(l *content.ExternalLink, f url.Values) (string, bool) {
	l.Label = formString(f, "label")
	l.URL = formString(f, "url")
	l.Icon = formString(f, "icon")
	if l.Label == "" || l.URL == "" {
		return "Label and URL are required.", false
	}
	u, err := url.Parse(l.URL)
	if err != nil || !validLinkScheme(u) {
		return "URL must start with http://, https://, mailto: or tel:.", false
	}
	if !content.IsLinkIcon(l.Icon) {
		return "Unknown icon.", false
	}
	if v := formString(f, "order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return "Order must be a whole number.", false
		}
		l.Order = n
	}
	return "", true
}

func validLinkScheme(u *url.URL) bool {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return u.Opaque != ""
	}
	return false
}

// CreateLink appends an external link.
func (s *Service) CreateLink(ctx context.Context, f url.Values) Result {
	var l content.ExternalLink
	if msg, valid := linkFromForm(&l, f); !valid {
		return fail(msg)
	}
	if err := s.store.CreateLink(ctx, &l); err != nil {
		return s.failure("create link", err, "Could not create the link.", "")
	}
	s.invalidate(cache.ForLinks())
	return ok("Link created.", l)
}

// UpdateLink overwrites an external link.
func (s *Service) UpdateLink(ctx context.Context, id int64, f url.Values) Result {
	l, err := s.store.GetLink(ctx, id)
	if err != nil {
		return s.failure("load link", err, "Could not update the link.", linkNotFound)
	}
	if msg, valid := linkFromForm(&l, f); !valid {
		return fail(msg)
	}
	if err := s.store.UpdateLink(ctx, l); err != nil {
		return s.failure("update link", err, "Could not update the link.", linkNotFound)
	}
	s.invalidate(cache.ForLinks())
	return ok("Link updated.", l)
}

// DeleteLink removes an external link.
func (s *Service) DeleteLink(ctx context.Context, id int64) Result {
	if err := s.store.DeleteLink(ctx, id); err != nil {
		return s.failure("delete link", err, "Could not delete the link.", "")
	}
	s.invalidate(cache.ForLinks())
	return ok("Link deleted.", nil)
}

// ReorderLinks stores the display order given by ids.
func (s *Service) ReorderLinks(ctx context.Context, ids []int64) Result {
	if len(ids) == 0 {
		return fail("No links to reorder.")
	}
	if err := s.store.ReorderLinks(ctx, ids); err != nil {
		return s.failure("reorder links", err, "Could not reorder the links.", linkNotFound)
	}
	s.invalidate(cache.ForLinks())
	return ok("Links reordered.", nil)
}

// SaveSeo upserts the SEO metadata of one page.
func (s *Service) SaveSeo(ctx context.Context, key string, f url.Values) Result {
	if !content.IsPageKey(key) {
		return fail("Unknown page.")
	}
	m := content.SeoMetadata{
		PageKey:     key,
		Title:       formString(f, "title"),
		Subtitle:    formString(f, "subtitle"),
		H1:          formString(f, "h1"),
		Description: formString(f, "description"),
		ImageAlt:    formString(f, "imageAlt"),
	}
	if err := s.store.SaveSeo(ctx, m); err != nil {
		return s.failure("save seo", err, "Could not save the SEO settings.", "")
	}
	s.invalidate(cache.ForSeo(key))
	return ok("SEO settings saved.", m)
}

// UploadIcon stores the favicon or the touch icon.
func (s *Service) UploadIcon(ctx context.Context, kind string, img *File) Result {
	if _, known := assets.IconFile(kind); !known {
		return fail("Unknown icon.")
	}
	if !hasFile(img) {
		return fail("An image is required.")
	}
	u, err := s.assets.SaveIcon(kind, io.NewSectionReader(img.Content, 0, img.Size))
	if err != nil {
		if errors.Is(err, assets.ErrUnknownIcon) {
			return fail("Unknown icon.")
		}
		s.logger.Warnf("[admin] icon %s: %v", kind, err)
		return fail("The image could not be read. Use a PNG or JPEG file.")
	}
	s.invalidate(cache.ForIcons())
	return ok("Icon updated.", u)
}
