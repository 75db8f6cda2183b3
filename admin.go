package atelier

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/atelier/admin"
	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.Config.views(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := c.FormValue("username")
	_, err := a.Store.Authenticate(c.Request().Context(), username, c.FormValue("password"))
	if err != nil {
		if !errors.Is(err, content.ErrBadCredentials) {
			return err
		}
		a.loginLimiter.Record(ip)
		c.Logger().Warnf("[admin] failed login for %q from %s", username, ip)
		return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.Config.views(), true, CsrfToken(c)))
	}
	if err := setAdminSession(c, username); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	d := views.Dashboard{
		Site:      a.Config.views(),
		Message:   msg,
		CSRFToken: CsrfToken(c),
		AIEnabled: a.seoGenerator != nil,
	}
	var err error
	if d.Paintings, err = a.Store.ListPaintings(ctx); err != nil {
		return err
	}
	if d.Reviews, err = a.Store.ListReviews(ctx); err != nil {
		return err
	}
	if d.Biography, err = a.Admin.Biography(ctx); err != nil {
		return err
	}
	if d.Settings, err = a.Store.GetOrCreateSettings(ctx); err != nil {
		return err
	}
	if d.Links, err = a.Store.ListLinks(ctx); err != nil {
		return err
	}
	if d.Seo, err = a.Store.ListSeo(ctx); err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(d))
}

// respond writes a Result as JSON: 200 on success, 400 otherwise.
func respond(c echo.Context, res admin.Result) error {
	if res.Success {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusBadRequest, res)
}

func form(c echo.Context) (url.Values, error) {
	f, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}
	return f, nil
}

func paramID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// withForm parses the form and the optional upload named field, runs op and
// writes its Result. The upload is closed afterwards.
func withForm(c echo.Context, field string, op func(url.Values, *admin.File) admin.Result) error {
	f, err := form(c)
	if err != nil {
		return err
	}
	var file *admin.File
	if field != "" {
		fh, err := c.FormFile(field)
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		case err != nil:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid upload").SetInternal(err)
		default:
			src, err := fh.Open()
			if err != nil {
				return err
			}
			defer src.Close()
			file = uploaded(fh, src)
		}
	}
	return respond(c, op(f, file))
}

func uploaded(fh *multipart.FileHeader, src multipart.File) *admin.File {
	return &admin.File{Name: fh.Filename, Size: fh.Size, Content: src}
}

// withID is withForm for routes carrying an :id parameter.
func withID(c echo.Context, field string, op func(int64, url.Values, *admin.File) admin.Result) error {
	id, ok := paramID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, admin.Result{Message: "Not found."})
	}
	return withForm(c, field, func(f url.Values, file *admin.File) admin.Result {
		return op(id, f, file)
	})
}

func (a *App) handleCreatePainting(c echo.Context) error {
	return withForm(c, "image", func(f url.Values, img *admin.File) admin.Result {
		return a.Admin.CreatePainting(c.Request().Context(), f, img)
	})
}

func (a *App) handleUpdatePainting(c echo.Context) error {
	return withID(c, "image", func(id int64, f url.Values, img *admin.File) admin.Result {
		return a.Admin.UpdatePainting(c.Request().Context(), id, f, img)
	})
}

func (a *App) handleDeletePainting(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, admin.Result{Message: "Not found."})
	}
	return respond(c, a.Admin.DeletePainting(c.Request().Context(), id))
}

func (a *App) handleToggleSold(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, admin.Result{Message: "Not found."})
	}
	return respond(c, a.Admin.ToggleSold(c.Request().Context(), id))
}

func (a *App) handleSaveBiography(c echo.Context) error {
	return withForm(c, "image", func(f url.Values, img *admin.File) admin.Result {
		return a.Admin.SaveBiography(c.Request().Context(), f, img)
	})
}

func (a *App) handleAdminReviews(c echo.Context) error {
	reviews, err := a.Store.ListReviews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (a *App) handleCreateReview(c echo.Context) error {
	return withForm(c, "image", func(f url.Values, img *admin.File) admin.Result {
		return a.Admin.CreateReview(c.Request().Context(), f, img)
	})
}

func (a *App) handleUpdateReview(c echo.Context) error {
	return withID(c, "image", func(id int64, f url.Values, img *admin.File) admin.Result {
		return a.Admin.UpdateReview(c.Request().Context(), id, f, img)
	})
}

func (a *App) handleDeleteReview(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, admin.Result{Message: "Not found."})
	}
	return respond(c, a.Admin.DeleteReview(c.Request().Context(), id))
}

func (a *App) handleSaveSettings(c echo.Context) error {
	return withForm(c, "", func(f url.Values, _ *admin.File) admin.Result {
		return a.Admin.SaveSettings(c.Request().Context(), f)
	})
}

func (a *App) handleCreateLink(c echo.Context) error {
	return withForm(c, "", func(f url.Values, _ *admin.File) admin.Result {
		return a.Admin.CreateLink(c.Request().Context(), f)
	})
}

func (a *App) handleUpdateLink(c echo.Context) error {
	return withID(c, "", func(id int64, f url.Values, _ *admin.File) admin.Result {
		return a.Admin.UpdateLink(c.Request().Context(), id, f)
	})
}

func (a *App) handleDeleteLink(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, admin.Result{Message: "Not found."})
	}
	return respond(c, a.Admin.DeleteLink(c.Request().Context(), id))
}

func (a *App) handleReorderLinks(c echo.Context) error {
	return withForm(c, "", func(f url.Values, _ *admin.File) admin.Result {
		ids, err := admin.ParseIDs(f["ids"])
		if err != nil {
			return admin.Result{Message: "Link not found."}
		}
		return a.Admin.ReorderLinks(c.Request().Context(), ids)
	})
}

func (a *App) handleSaveSeo(c echo.Context) error {
	return withForm(c, "", func(f url.Values, _ *admin.File) admin.Result {
		return a.Admin.SaveSeo(c.Request().Context(), c.Param("key"), f)
	})
}

func (a *App) handleUploadIcon(c echo.Context) error {
	return withForm(c, "image", func(_ url.Values, img *admin.File) admin.Result {
		return a.Admin.UploadIcon(c.Request().Context(), c.Param("kind"), img)
	})
}

func (a *App) handleExport(c echo.Context) error {
	arc, res := a.Admin.ExportBackup(c.Request().Context())
	if !res.Success {
		return c.JSON(http.StatusInternalServerError, res)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+arc.Filename+`"`)
	return c.Blob(http.StatusOK, "application/zip", arc.Data)
}

func (a *App) handleImport(c echo.Context) error {
	return withForm(c, "backup", func(f url.Values, file *admin.File) admin.Result {
		return a.Admin.ImportBackup(c.Request().Context(), f, file)
	})
}

func (a *App) handleSync(c echo.Context) error {
	return respond(c, a.Admin.SyncFromFiles(c.Request().Context()))
}

func (a *App) handleAudit(c echo.Context) error {
	return respond(c, a.Admin.Audit(c.Request().Context()))
}

func (a *App) handleGenerateSeo(c echo.Context) error {
	return withForm(c, "", func(f url.Values, _ *admin.File) admin.Result {
		return a.Admin.GenerateSeo(c.Request().Context(), f)
	})
}
