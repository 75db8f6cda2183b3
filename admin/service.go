// Package admin implements the back-office mutations. Every operation takes
// a flat form payload, returns a Result, and invalidates the cache entries
// its write affects before reporting success. Internal error text is logged,
// never returned.
package admin

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/atelier/ai"
	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/backup"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/reconcile"
)

// Result is what every operation returns to the admin UI.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(msg string, data any) Result { return Result{Success: true, Message: msg, Data: data} }

func fail(msg string) Result { return Result{Message: msg} }

// File is an uploaded file. multipart.File satisfies Content.
type File struct {
	Name    string
	Size    int64
	Content interface {
		io.Reader
		io.ReaderAt
	}
}

// SeoGenerator produces SEO suggestions. *ai.Client implements it.
type SeoGenerator interface {
	GenerateSeo(ctx context.Context, s ai.Subject) (ai.Suggestion, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store    *content.Store
	Assets   *assets.Store
	Cache    cache.Revalidator
	Backup   *backup.Service
	Sync     *reconcile.Reconciler
	AI       SeoGenerator
	Logger   echo.Logger
	SiteName string
}

// Service runs admin operations against one gallery.
type Service struct {
	store    *content.Store
	assets   *assets.Store
	cache    cache.Revalidator
	backup   *backup.Service
	sync     *reconcile.Reconciler
	ai       SeoGenerator
	logger   echo.Logger
	siteName string
}

// New returns a Service. Backup and Sync are built from the store, assets
// and cache when not provided.
func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = log.New("admin")
	}
	if d.Backup == nil {
		d.Backup = backup.NewService(d.Store, d.Assets, d.Cache, d.Logger)
	}
	if d.Sync == nil {
		d.Sync = reconcile.New(d.Store, d.Assets, d.Cache, d.Logger)
	}
	return &Service{
		store:    d.Store,
		assets:   d.Assets,
		cache:    d.Cache,
		backup:   d.Backup,
		sync:     d.Sync,
		ai:       d.AI,
		logger:   d.Logger,
		siteName: d.SiteName,
	}
}

// failure logs err and returns msg, or a not-found / conflict message when
// err says so.
func (s *Service) failure(op string, err error, msg, notFoundMsg string) Result {
	switch {
	case errors.Is(err, content.ErrNotFound) && notFoundMsg != "":
		return fail(notFoundMsg)
	case errors.Is(err, content.ErrInvalidRow) && strings.Contains(err.Error(), ".slug"):
		s.logger.Warnf("[admin] %s: %v", op, err)
		return fail("This slug is already used.")
	}
	s.logger.Errorf("[admin] %s: %v", op, err)
	return fail(msg)
}

func (s *Service) invalidate(inv cache.Invalidation) {
	cache.Apply(s.cache, inv)
}

func formString(f url.Values, key string) string {
	return strings.TrimSpace(f.Get(key))
}

func formBool(f url.Values, key string) bool {
	switch strings.ToLower(formString(f, key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parsePrice accepts "1200", "1 200,50" or "1200.50". Empty means no price.
func parsePrice(s string) (*float64, error) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, errors.New("invalid price")
	}
	return &v, nil
}

func parseDimension(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.New("invalid dimension")
	}
	return v, nil
}

// ParseIDs reads a list of ids given either as repeated values or as one
// comma separated value.
func ParseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func hasFile(f *File) bool {
	return f != nil && f.Content != nil && f.Size != 0
}
