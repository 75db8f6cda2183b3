package cache

import (
	"net/url"
	"strconv"
	"sync"
)

// Data tags. Reviews are read under "style".
const (
	TagPaintings = "paintings"
	TagBiography = "biography"
	TagReviews   = "style"
	TagSettings  = "settings"
	TagLinks     = "links"
	TagSeo       = "seo"
)

// AllTags lists every content tag.
var AllTags = []string{TagPaintings, TagBiography, TagReviews, TagSettings, TagLinks, TagSeo}

// Derived routes.
const (
	RouteHome      = "/"
	RouteBiography = "/biography/"
	RouteReviews   = "/reviews/"
	RouteContact   = "/contact/"
	RouteSitemap   = "/sitemap.xml"
	RouteFeed      = "/feed.xml"
	RouteAdminRevs = "/admin/reviews/"
)

// PaintingRoute returns the public page of a painting.
func PaintingRoute(ref string) string { return "/paintings/" + url.PathEscape(ref) + "/" }

// ReviewRoute returns the public page of a review.
func ReviewRoute(ref string) string { return "/reviews/" + url.PathEscape(ref) + "/" }

// seoRoutes maps an SEO page key to the route it decorates.
var seoRoutes = map[string]string{
	"home":      RouteHome,
	"biography": RouteBiography,
	"reviews":   RouteReviews,
	"contact":   RouteContact,
}

// Invalidation is the set of tags and paths one mutation must invalidate.
type Invalidation struct {
	Tags   []string
	Pages  []string
	Layout bool
	Mode   Mode
}

// Apply sends inv to r. Tags go first so a page rebuilt right after sees
// fresh data.
func Apply(r Revalidator, inv Invalidation) {
	if r == nil {
		return
	}
	for _, t := range inv.Tags {
		r.InvalidateTag(t, inv.Mode)
	}
	for _, p := range inv.Pages {
		r.InvalidatePath(p, Page)
	}
	if inv.Layout {
		r.InvalidatePath(RouteHome, Layout)
	}
}

// ForPainting covers a painting create, update, sold toggle or delete.
// refs are the painting's page refs before and after the write. The page is
// also reachable by id, so that route is always included.
func ForPainting(id int64, refs ...string) Invalidation {
	inv := Invalidation{
		Tags:  []string{TagPaintings},
		Pages: []string{RouteHome, RouteSitemap, RouteFeed},
	}
	inv.Pages = appendRoutes(inv.Pages, PaintingRoute, withID(id, refs))
	return inv
}

// ForBiography covers a biography save.
func ForBiography() Invalidation {
	return Invalidation{Tags: []string{TagBiography}, Pages: []string{RouteBiography}}
}

// ForReview covers a review create, update or delete. Reviews are listed in
// the sitemap; like paintings their page also answers by id.
func ForReview(id int64, refs ...string) Invalidation {
	inv := Invalidation{
		Tags:  []string{TagReviews},
		Pages: []string{RouteReviews, RouteAdminRevs, RouteSitemap},
	}
	inv.Pages = appendRoutes(inv.Pages, ReviewRoute, withID(id, refs))
	return inv
}

// ForSettings covers a settings save. The navbar and footer are on every page.
func ForSettings() Invalidation {
	return Invalidation{Tags: []string{TagSettings}, Layout: true}
}

// ForLinks covers any external link mutation.
func ForLinks() Invalidation {
	return Invalidation{Tags: []string{TagLinks}, Layout: true}
}

// ForSeo covers a save of the SEO row of key.
func ForSeo(key string) Invalidation {
	inv := Invalidation{Tags: []string{TagSeo}, Pages: []string{RouteSitemap}}
	if r, ok := seoRoutes[key]; ok {
		inv.Pages = append(inv.Pages, r)
	}
	return inv
}

// ForIcons covers a favicon or touch icon upload.
func ForIcons() Invalidation {
	return Invalidation{Layout: true}
}

// ForImport covers a full restore: every tag and every page.
func ForImport() Invalidation {
	return Invalidation{Tags: append([]string(nil), AllTags...), Layout: true}
}

// ForSync covers a filesystem reconcile run.
func ForSync() Invalidation {
	return Invalidation{Tags: []string{TagPaintings, TagReviews, TagBiography}, Layout: true}
}

func withID(id int64, refs []string) []string {
	if id <= 0 {
		return refs
	}
	return append(append([]string(nil), refs...), strconv.FormatInt(id, 10))
}

func appendRoutes(pages []string, route func(string) string, refs []string) []string {
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		pages = append(pages, route(ref))
	}
	return pages
}

// Call is one recorded invalidation.
type Call struct {
	Tag  string
	Mode Mode
	Path string
	Kind PathKind
}

// Recorder is a Revalidator that only records what it is asked to do.
type Recorder struct {
	mu    sync.Mutex
	Calls []Call
}

var _ Revalidator = (*Recorder)(nil)

func (r *Recorder) InvalidateTag(tag string, mode Mode) {
	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Tag: tag, Mode: mode})
	r.mu.Unlock()
}

func (r *Recorder) InvalidatePath(path string, kind PathKind) {
	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Path: path, Kind: kind})
	r.mu.Unlock()
}

// Tags returns the recorded tags in call order.
func (r *Recorder) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.Calls {
		if c.Tag != "" {
			out = append(out, c.Tag)
		}
	}
	return out
}

// Pages returns the recorded single-page paths in call order.
func (r *Recorder) Pages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.Calls {
		if c.Path != "" && c.Kind == Page {
			out = append(out, c.Path)
		}
	}
	return out
}

// Layout reports whether a layout-wide invalidation was recorded.
func (r *Recorder) Layout() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if c.Path != "" && c.Kind == Layout {
			return true
		}
	}
	return false
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.Calls = nil
	r.mu.Unlock()
}
