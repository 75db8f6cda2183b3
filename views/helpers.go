package views

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/atelier/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// absURL resolves a site-relative path such as an image URL against base.
func absURL(base, p string) string {
	if p == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return p
	}
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return b.ResolveReference(ref).String()
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// SafeURL returns an external link URL when its scheme is one the admin may
// enter. Anything else renders as "#".
func SafeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return u.String()
	}
	return "#"
}

// FormatPrice renders a price the French way: "1 200 €" or "1 200,50 €".
// A nil price renders as "".
func FormatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	cents := int64(*p*100 + 0.5)
	whole, frac := cents/100, cents%100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	if frac != 0 {
		fmt.Fprintf(&b, ",%02d", frac)
	}
	b.WriteString(" €")
	return b.String()
}

// Dimensions renders "80 × 60 cm", or "" when either side is unknown.
func Dimensions(p content.Painting) string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	return strconv.Itoa(p.Width) + " × " + strconv.Itoa(p.Height) + " cm"
}

var iconLabels = map[string]string{
	"instagram": "Instagram",
	"facebook":  "Facebook",
	"twitter":   "X",
	"linkedin":  "LinkedIn",
	"youtube":   "YouTube",
	"tiktok":    "TikTok",
	"pinterest": "Pinterest",
	"website":   "Site",
	"email":     "E-mail",
	"phone":     "Téléphone",
	"shop":      "Boutique",
}

// IconLabel names a link icon for screen readers.
func IconLabel(icon string) string {
	if l, ok := iconLabels[icon]; ok {
		return l
	}
	return icon
}

func person(name string) map[string]string {
	return map[string]string{"@type": "Person", "name": name}
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD object using cfg values.
func WebsiteJsonLD(cfg SiteConfig) map[string]any {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = person(cfg.Author)
	}
	return data
}

// PaintingJsonLD produces a Schema.org VisualArtwork object for a painting.
func PaintingJsonLD(cfg SiteConfig, p content.Painting) map[string]any {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "VisualArtwork",
		"name":     p.Title,
		"url":      buildURL(cfg.URL, "paintings", p.Ref()),
		"image":    absURL(cfg.URL, p.ImageURL),
	}
	if p.Description != "" {
		data["description"] = p.Description
	}
	if p.Width > 0 && p.Height > 0 {
		data["width"] = map[string]any{"@type": "Distance", "name": strconv.Itoa(p.Width) + " cm"}
		data["height"] = map[string]any{"@type": "Distance", "name": strconv.Itoa(p.Height) + " cm"}
	}
	if cfg.Author != "" {
		data["creator"] = person(cfg.Author)
	}
	if p.Price != nil && !p.Sold {
		data["offers"] = map[string]any{
			"@type":         "Offer",
			"price":         strconv.FormatFloat(*p.Price, 'f', 2, 64),
			"priceCurrency": "EUR",
			"availability":  "https://schema.org/InStock",
		}
	}
	return data
}

// ReviewJsonLD produces a Schema.org Article object for a review.
func ReviewJsonLD(cfg SiteConfig, r content.Review) map[string]any {
	u := buildURL(cfg.URL, "reviews", r.Ref())
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": r.Title,
		"url":      u,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   u,
		},
	}
	if r.Author != "" {
		data["author"] = person(r.Author)
	}
	if r.Source != "" {
		data["publisher"] = map[string]string{"@type": "Organization", "name": r.Source}
	}
	if r.ImageURL != "" {
		data["image"] = absURL(cfg.URL, r.ImageURL)
	}
	return data
}

func currentYear() int {
	return time.Now().Year()
}

// jsonLD renders data as an application/ld+json script element.
func jsonLD(data map[string]any) templ.Component {
	return templ.JSONScript("", data).WithType("application/ld+json")
}

// byline joins the non-empty author, source and date of a review.
func byline(r content.Review) string {
	var parts []string
	for _, s := range []string{r.Author, r.Source, r.Date} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

func paintingAlt(p content.Painting) string {
	if p.SeoAltText != "" {
		return p.SeoAltText
	}
	return p.Title
}

func paintingRoute(p content.Painting) string {
	return "/paintings/" + PathEscape(p.Ref()) + "/"
}

func reviewRoute(r content.Review) string {
	return "/reviews/" + PathEscape(r.Ref()) + "/"
}
