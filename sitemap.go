package atelier

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/eringen/atelier/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(paintings []content.Painting, reviews []content.Review) ([]byte, error) {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "biography")},
		{Loc: BuildURL(base, "reviews")},
		{Loc: BuildURL(base, "contact")},
	}
	for _, p := range paintings {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "paintings", p.Ref()),
			LastMod: lastMod(p.CreatedAt),
		})
	}
	for _, r := range reviews {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "reviews", r.Ref()),
			LastMod: lastMod(r.CreatedAt),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
