package reconcile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/eringen/atelier/assets"
)

// Dangling is a painting whose image URL resolves to no file.
type Dangling struct {
	PaintingID int64  `json:"paintingId"`
	Title      string `json:"title"`
	ImageURL   string `json:"imageUrl"`
}

// AuditReport lists the mismatches between painting rows and image files.
type AuditReport struct {
	Missing  []Dangling `json:"missing"`
	Orphaned []string   `json:"orphaned"`
}

// Clean reports whether rows and files agree.
func (a AuditReport) Clean() bool {
	return len(a.Missing) == 0 && len(a.Orphaned) == 0
}

// Audit compares painting rows with the paintings directory without
// changing either. Image URLs pointing outside the asset store are not
// checked.
func (r *Reconciler) Audit(ctx context.Context) (AuditReport, error) {
	var report AuditReport

	paintings, err := r.store.ListPaintings(ctx)
	if err != nil {
		return report, err
	}
	known := make(map[string]bool, len(paintings))
	for _, p := range paintings {
		known[p.ImageURL] = true
		fp, ok := r.assets.PathFor(p.ImageURL)
		if !ok {
			continue
		}
		if _, err := os.Stat(fp); errors.Is(err, fs.ErrNotExist) {
			report.Missing = append(report.Missing, Dangling{PaintingID: p.ID, Title: p.Title, ImageURL: p.ImageURL})
		}
	}

	names, err := r.list(assets.PaintingsDir, assets.ImageExts)
	if err != nil {
		return report, err
	}
	for _, name := range names {
		url := r.assets.URLFor(path.Join(assets.PaintingsDir, name))
		if !known[url] {
			report.Orphaned = append(report.Orphaned, url)
		}
	}
	sort.Slice(report.Missing, func(i, j int) bool { return report.Missing[i].PaintingID < report.Missing[j].PaintingID })
	return report, nil
}
