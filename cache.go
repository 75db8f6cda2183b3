package atelier

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

const keyAll = "all"

// read loads a value through the tag cache. Public pages never fail on a
// read error: it is logged and the zero value is returned.
func read[T any](a *App, tag, key string, load func() (T, error)) T {
	v, err := cache.Fetch(a.Cache, tag, key, load)
	if err != nil {
		a.Echo.Logger.Warnf("[cache] %s/%s: %v", tag, key, err)
		var zero T
		return zero
	}
	return v
}

func (a *App) paintings(ctx context.Context) []content.Painting {
	return read(a, cache.TagPaintings, keyAll, func() ([]content.Painting, error) {
		return a.Store.ListPaintings(ctx)
	})
}

func (a *App) reviews(ctx context.Context) []content.Review {
	return read(a, cache.TagReviews, keyAll, func() ([]content.Review, error) {
		return a.Store.ListReviews(ctx)
	})
}

func (a *App) links(ctx context.Context) []content.ExternalLink {
	return read(a, cache.TagLinks, keyAll, func() ([]content.ExternalLink, error) {
		return a.Store.ListLinks(ctx)
	})
}

func (a *App) settings(ctx context.Context) content.Settings {
	return read(a, cache.TagSettings, keyAll, func() (content.Settings, error) {
		return a.Store.GetOrCreateSettings(ctx)
	})
}

func (a *App) seo(ctx context.Context) map[string]content.SeoMetadata {
	return read(a, cache.TagSeo, keyAll, func() (map[string]content.SeoMetadata, error) {
		return a.Store.ListSeo(ctx)
	})
}

func (a *App) biography(ctx context.Context) content.Biography {
	return read(a, cache.TagBiography, keyAll, func() (content.Biography, error) {
		return a.Admin.Biography(ctx)
	})
}

// painting and review return echo.ErrNotFound for unknown refs; other
// errors pass through.
func (a *App) painting(ctx context.Context, ref string) (content.Painting, error) {
	p, err := cache.Fetch(a.Cache, cache.TagPaintings, "ref:"+ref, func() (content.Painting, error) {
		return a.Store.GetPaintingByRef(ctx, ref)
	})
	if errors.Is(err, content.ErrNotFound) {
		return p, echo.ErrNotFound
	}
	return p, err
}

func (a *App) review(ctx context.Context, ref string) (content.Review, error) {
	rv, err := cache.Fetch(a.Cache, cache.TagReviews, "ref:"+ref, func() (content.Review, error) {
		return a.Store.GetReviewByRef(ctx, ref)
	})
	if errors.Is(err, content.ErrNotFound) {
		return rv, echo.ErrNotFound
	}
	return rv, err
}
