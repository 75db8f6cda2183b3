package atelier

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/markdown"
	"github.com/eringen/atelier/views"
)

func (a *App) layout(ctx context.Context, meta views.PageMeta) views.Layout {
	return views.Layout{
		Site:     a.Config.views(),
		Settings: a.settings(ctx),
		Links:    a.links(ctx),
		Meta:     meta,
	}
}

// pageMeta builds the head metadata of a well-known page from its SEO row.
func (a *App) pageMeta(ctx context.Context, key string, segments ...string) views.PageMeta {
	m := a.seo(ctx)[key]
	meta := views.PageMeta{
		Title:       m.Title,
		Description: m.Description,
		URL:         BuildURL(a.Config.URL, segments...),
		OGType:      "website",
		H1:          m.H1,
		Subtitle:    m.Subtitle,
	}
	if meta.Description == "" {
		meta.Description = a.Config.Description
	}
	return meta
}

func (a *App) handleHome(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		l := a.layout(ctx, a.pageMeta(ctx, content.PageHome))
		return views.Home(l, a.paintings(ctx)), nil
	})
}

func handlePaintingsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handlePainting(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		p, err := a.painting(ctx, c.Param("ref"))
		if err != nil {
			return nil, err
		}
		meta := views.PageMeta{
			Title:       firstNonEmpty(p.SeoTitle, p.Title),
			Description: firstNonEmpty(p.SeoDescription, markdown.PlainText(p.Description, 160)),
			URL:         BuildURL(a.Config.URL, "paintings", p.Ref()),
			OGType:      "article",
			Image:       absoluteURL(a.Config.URL, p.ImageURL),
		}
		return views.Painting(a.layout(ctx, meta), p), nil
	})
}

func (a *App) handleBiography(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		b := a.biography(ctx)
		meta := a.pageMeta(ctx, content.PageBiography, "biography")
		if meta.Title == "" {
			meta.Title = "Biographie"
		}
		meta.Image = absoluteURL(a.Config.URL, b.ImageURL)
		return views.Biography(a.layout(ctx, meta), b), nil
	})
}

func (a *App) handleReviews(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		meta := a.pageMeta(ctx, content.PageReviews, "reviews")
		if meta.Title == "" {
			meta.Title = "Presse"
		}
		return views.Reviews(a.layout(ctx, meta), a.reviews(ctx)), nil
	})
}

func (a *App) handleReview(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		rv, err := a.review(ctx, c.Param("ref"))
		if err != nil {
			return nil, err
		}
		meta := views.PageMeta{
			Title:       firstNonEmpty(rv.SeoTitle, rv.Title),
			Description: firstNonEmpty(rv.SeoDescription, markdown.PlainText(rv.Content, 160)),
			URL:         BuildURL(a.Config.URL, "reviews", rv.Ref()),
			OGType:      "article",
			Image:       absoluteURL(a.Config.URL, rv.ImageURL),
		}
		return views.Review(a.layout(ctx, meta), rv), nil
	})
}

func (a *App) handleContact(c echo.Context) error {
	return a.renderPage(c, func() (templ.Component, error) {
		ctx := c.Request().Context()
		meta := a.pageMeta(ctx, content.PageContact, "contact")
		if meta.Title == "" {
			meta.Title = "Contact"
		}
		return views.Contact(a.layout(ctx, meta)), nil
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.servePage(c, "application/xml; charset=utf-8", func() ([]byte, error) {
		ctx := c.Request().Context()
		return a.renderSitemap(a.paintings(ctx), a.reviews(ctx))
	})
}

func (a *App) handleFeed(c echo.Context) error {
	return a.servePage(c, "application/rss+xml; charset=utf-8", func() ([]byte, error) {
		return a.renderRSS(a.paintings(c.Request().Context()))
	})
}

// handleIcon serves an uploaded favicon or touch icon from the asset root.
func (a *App) handleIcon(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		name, _ := assets.IconFile(kind)
		path, ok := a.Assets.PathFor(a.Assets.URLFor(name))
		if !ok {
			return echo.ErrNotFound
		}
		return c.File(path)
	}
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nDisallow: /admin/\n\n")
	b.WriteString("Sitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !strings.HasPrefix(c.Request().URL.Path, "/admin/") {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.errorLayout(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.errorLayout(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) errorLayout(c echo.Context) views.Layout {
	return a.layout(c.Request().Context(), views.PageMeta{})
}
