package atelier

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/markdown"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate,omitempty"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int64  `xml:"length,attr"`
}

// renderRSS builds the feed of newly added paintings.
func (a *App) renderRSS(paintings []content.Painting) ([]byte, error) {
	base := a.Config.URL
	items := make([]rssItem, 0, len(paintings))
	for _, p := range paintings {
		pubDate := ""
		if !p.CreatedAt.IsZero() {
			pubDate = p.CreatedAt.Format(time.RFC1123Z)
		}
		link := BuildURL(base, "paintings", p.Ref())
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: markdown.PlainText(p.Description, 300),
			PubDate:     pubDate,
			GUID:        link,
		}
		if p.ImageURL != "" {
			item.Enclosure = &rssEnclosure{URL: absoluteURL(base, p.ImageURL), Type: "image/jpeg"}
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(feed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
