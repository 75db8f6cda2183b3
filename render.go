package atelier

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// servePage answers from the page cache, or builds the body, stores it under
// the request path and writes it. Errors from build are not cached, nor is
// a page whose inputs were invalidated while it was being built.
func (a *App) servePage(c echo.Context, contentType string, build func() ([]byte, error)) error {
	path := c.Request().URL.Path
	if ct, body, ok := a.Cache.Page(path); ok {
		return c.Blob(http.StatusOK, ct, body)
	}
	gen := a.Cache.PageGeneration()
	body, err := build()
	if err != nil {
		return err
	}
	a.Cache.StorePage(path, contentType, body, gen)
	return c.Blob(http.StatusOK, contentType, body)
}

// renderPage is servePage for templ components.
func (a *App) renderPage(c echo.Context, load func() (templ.Component, error)) error {
	return a.servePage(c, echo.MIMETextHTMLCharsetUTF8, func() ([]byte, error) {
		cmp, err := load()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := cmp.Render(c.Request().Context(), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}
