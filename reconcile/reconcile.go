// Package reconcile makes the content store aware of files dropped into the
// asset tree by hand. It only ever adds rows; nothing is deleted.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

const (
	// ReviewSource marks reviews created from a markdown file.
	ReviewSource = "Fichier local"
	// BiographyPlaceholder seeds an empty biography file.
	BiographyPlaceholder = "# Biographie\n\nÀ compléter.\n"
)

var markdownExts = map[string]bool{".md": true}

// Report counts what one run created.
type Report struct {
	Paintings       int
	Reviews         int
	BiographySeeded bool
}

// Message is the admin-facing summary of the run.
func (r Report) Message() string {
	msg := fmt.Sprintf("Sync complete: %d painting(s), %d review(s) added.", r.Paintings, r.Reviews)
	if r.BiographySeeded {
		msg += " Biography file created."
	}
	return msg
}

// Reconciler scans the asset tree and inserts rows for unknown files.
type Reconciler struct {
	store  *content.Store
	assets *assets.Store
	cache  cache.Revalidator
	logger echo.Logger
	now    func() time.Time
}

// New returns a Reconciler. A nil logger falls back to a gommon logger.
func New(store *content.Store, files *assets.Store, rv cache.Revalidator, logger echo.Logger) *Reconciler {
	if logger == nil {
		logger = log.New("reconcile")
	}
	return &Reconciler{store: store, assets: files, cache: rv, logger: logger, now: time.Now}
}

// Run reconciles paintings, then reviews, then the biography file, and
// always ends with a layout-wide invalidation.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report
	defer cache.Apply(r.cache, cache.ForSync())

	n, err := r.syncPaintings(ctx)
	report.Paintings = n
	if err != nil {
		return report, fmt.Errorf("sync paintings: %w", err)
	}
	n, err = r.syncReviews(ctx)
	report.Reviews = n
	if err != nil {
		return report, fmt.Errorf("sync reviews: %w", err)
	}
	report.BiographySeeded, err = r.seedBiography(ctx)
	if err != nil {
		return report, fmt.Errorf("seed biography: %w", err)
	}

	r.logger.Infof("[sync] %d paintings, %d reviews added, biography seeded: %v",
		report.Paintings, report.Reviews, report.BiographySeeded)
	return report, nil
}

// list returns the matching files of dir. A missing dir is nothing to sync.
func (r *Reconciler) list(dir string, exts map[string]bool) ([]string, error) {
	names, err := r.assets.List(dir, exts)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Warnf("[sync] %s/ not found under %s, nothing to sync", dir, r.assets.Root())
		return nil, nil
	}
	return names, err
}

func (r *Reconciler) syncPaintings(ctx context.Context) (int, error) {
	names, err := r.list(assets.PaintingsDir, assets.ImageExts)
	if err != nil || len(names) == 0 {
		return 0, err
	}
	known, err := r.store.PaintingImageURLs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, name := range names {
		url := r.assets.URLFor(path.Join(assets.PaintingsDir, name))
		if _, ok := known[url]; ok {
			continue
		}
		p := content.Painting{
			Title:     TitleFromFilename(name),
			ImageURL:  url,
			CreatedAt: r.now().UTC(),
		}
		if err := r.store.CreatePainting(ctx, &p); err != nil {
			return created, fmt.Errorf("%s: %w", name, err)
		}
		known[url] = struct{}{}
		created++
		r.logger.Infof("[sync] painting %d from %s", p.ID, name)
	}
	return created, nil
}

// syncReviews keys existing reviews by author: a file is skipped when any
// review already has the file's base name as author.
func (r *Reconciler) syncReviews(ctx context.Context) (int, error) {
	names, err := r.list(assets.ReviewsDir, markdownExts)
	if err != nil || len(names) == 0 {
		return 0, err
	}
	authors, err := r.store.ReviewAuthors(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, name := range names {
		author := strings.TrimSuffix(name, filepath.Ext(name))
		if _, ok := authors[author]; ok {
			continue
		}
		body, err := r.assets.ReadFile(path.Join(assets.ReviewsDir, name))
		if err != nil {
			return created, fmt.Errorf("%s: %w", name, err)
		}
		now := r.now().UTC()
		rv := content.Review{
			Title:     author,
			Author:    author,
			Source:    ReviewSource,
			Date:      now.Format(time.RFC3339),
			Type:      content.ReviewTypeReview,
			Content:   string(body),
			CreatedAt: now,
		}
		if err := r.store.CreateReview(ctx, &rv); err != nil {
			return created, fmt.Errorf("%s: %w", name, err)
		}
		authors[author] = struct{}{}
		created++
		r.logger.Infof("[sync] review %d from %s", rv.ID, name)
	}
	return created, nil
}

func (r *Reconciler) seedBiography(ctx context.Context) (bool, error) {
	if _, ok := r.assets.ReadBiography(); ok {
		return false, nil
	}
	text := BiographyPlaceholder
	bio, err := r.store.GetOrCreateBiography(ctx)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(bio.Content) != "" {
		text = bio.Content
	}
	if err := r.assets.WriteBiography(text); err != nil {
		return false, err
	}
	return true, nil
}

// TitleFromFilename turns "Sunset_Over-Hills.jpg" into "Sunset Over Hills".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
