// Package views holds the gallery's pages as templ components. Public pages
// share one layout (head metadata, navbar, footer links); admin pages share a
// bare one.
package views

import (
	"strconv"

	"github.com/a-h/templ"
)

var navItems = []struct{ href, label string }{
	{"/", "Œuvres"},
	{"/biography/", "Biographie"},
	{"/reviews/", "Presse"},
	{"/contact/", "Contact"},
}

func metaTag(w *writer, key, name, content string) {
	if content == "" {
		return
	}
	w.raw("<meta")
	w.attr(key, name)
	w.attr("content", content)
	w.raw(">")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// page wraps body in the public layout. head is rendered at the end of
// <head> and may be nil.
func page(l Layout, head templ.Component, body func(w *writer)) templ.Component {
	return component(func(w *writer) {
		m := l.Meta
		w.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if m.Title != "" {
			w.text(m.Title)
			w.raw(" | ")
		}
		w.text(l.Site.Name)
		w.raw("</title>")

		metaTag(w, "name", "description", m.Description)
		if m.URL != "" {
			w.raw(`<link rel="canonical"`)
			w.attr("href", m.URL)
			w.raw(">")
		}
		metaTag(w, "property", "og:site_name", l.Site.Name)
		metaTag(w, "property", "og:title", firstNonEmpty(m.Title, l.Site.Name))
		metaTag(w, "property", "og:type", firstNonEmpty(m.OGType, "website"))
		metaTag(w, "property", "og:url", m.URL)
		metaTag(w, "property", "og:description", m.Description)
		metaTag(w, "property", "og:image", m.Image)

		w.raw(`<link rel="icon" type="image/png" href="/favicon.png">`)
		w.raw(`<link rel="apple-touch-icon" href="/apple-touch-icon.png">`)
		w.raw(`<link rel="alternate" type="application/rss+xml"`)
		w.attr("title", l.Site.Name)
		w.raw(` href="/feed.xml">`)
		w.raw(`<link rel="stylesheet" href="/public/site.css">`)
		w.render(jsonLD(WebsiteJsonLD(l.Site)))
		w.render(head)
		if l.Site.AnalyticsScriptURL != "" {
			w.raw("<script defer")
			w.url("src", l.Site.AnalyticsScriptURL)
			w.optAttr("data-site-id", l.Site.AnalyticsSiteID)
			w.raw("></script>")
		}
		w.raw("</head><body>")

		w.raw(`<header class="site-header"><a class="brand" href="/">`)
		w.text(l.NavbarTitle())
		w.raw("</a><nav>")
		for _, item := range navItems {
			w.raw("<a")
			w.attr("href", item.href)
			w.raw(">")
			w.text(item.label)
			w.raw("</a>")
		}
		w.raw("</nav></header><main>")
		body(w)
		w.raw(`</main><footer class="site-footer">`)
		if len(l.Links) > 0 {
			w.raw(`<ul class="links">`)
			for _, link := range l.Links {
				w.raw("<li><a")
				w.url("href", SafeURL(link.URL))
				w.attr("class", "icon-"+link.Icon)
				w.attr("aria-label", IconLabel(link.Icon))
				w.raw(` rel="noopener">`)
				w.text(link.Label)
				w.raw("</a></li>")
			}
			w.raw("</ul>")
		}
		w.raw("<p>&copy; ", strconv.Itoa(currentYear()), " ")
		w.text(l.NavbarTitle())
		w.raw("</p></footer></body></html>")
	})
}

// adminPage wraps body in the back-office layout. The CSRF token is exposed
// on <body> for the dashboard script.
func adminPage(site SiteConfig, csrfToken string, body func(w *writer)) templ.Component {
	return component(func(w *writer) {
		w.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<meta name="robots" content="noindex"><title>Administration | `)
		w.text(site.Name)
		w.raw(`</title><link rel="stylesheet" href="/public/admin.css"></head>`)
		w.raw(`<body class="admin"`)
		w.attr("data-csrf", csrfToken)
		w.raw(">")
		body(w)
		w.raw("</body></html>")
	})
}
