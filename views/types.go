package views

import "github.com/eringen/atelier/content"

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Atelier")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR

	AnalyticsScriptURL string // ANALYTICS_SCRIPT_URL, omitted when empty
	AnalyticsSiteID    string // ANALYTICS_SITE_ID
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // absolute og:image URL
	H1          string
	Subtitle    string
}

// Layout is the data shared by every public page: the navbar, the footer
// links and the <head> metadata.
type Layout struct {
	Site     SiteConfig
	Settings content.Settings
	Links    []content.ExternalLink
	Meta     PageMeta
}

// NavbarTitle is the configured navbar title, falling back to the site name.
func (l Layout) NavbarTitle() string {
	if l.Settings.NavbarTitle != "" {
		return l.Settings.NavbarTitle
	}
	return l.Site.Name
}

// Dashboard is everything the admin dashboard shows.
type Dashboard struct {
	Site      SiteConfig
	Paintings []content.Painting
	Reviews   []content.Review
	Biography content.Biography
	Settings  content.Settings
	Links     []content.ExternalLink
	Seo       map[string]content.SeoMetadata
	Message   string
	CSRFToken string
	AIEnabled bool
}
