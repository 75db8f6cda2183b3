package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/atelier/content"
	"github.com/eringen/atelier/markdown"
)

// heading writes the page's h1 and optional subtitle from its SEO metadata.
func heading(w *writer, m PageMeta, fallback string) {
	w.elem("h1", firstNonEmpty(m.H1, fallback))
	if m.Subtitle != "" {
		w.raw(`<p class="subtitle">`)
		w.text(m.Subtitle)
		w.raw("</p>")
	}
}

func empty(w *writer, msg string) {
	w.raw(`<p class="empty">`)
	w.text(msg)
	w.raw("</p>")
}

// Home lists the catalog.
func Home(l Layout, paintings []content.Painting) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<section class="hero">`)
		heading(w, l.Meta, l.NavbarTitle())
		w.raw("</section>")
		if len(paintings) == 0 {
			empty(w, "Aucune œuvre pour le moment.")
			return
		}
		w.raw(`<ul class="gallery">`)
		for _, p := range paintings {
			class := "painting"
			if p.Sold {
				class += " sold"
			}
			w.raw("<li")
			w.attr("class", class)
			w.raw("><a")
			w.attr("href", paintingRoute(p))
			w.raw("><img")
			w.url("src", p.ImageURL)
			w.attr("alt", paintingAlt(p))
			w.raw(` loading="lazy"><span class="title">`)
			w.text(p.Title)
			w.raw("</span>")
			if p.Sold {
				w.raw(`<span class="badge">Vendu</span>`)
			} else if price := FormatPrice(p.Price); price != "" {
				w.raw(`<span class="price">`)
				w.text(price)
				w.raw("</span>")
			}
			w.raw("</a></li>")
		}
		w.raw("</ul>")
	})
}

// Painting is the detail page of one painting.
func Painting(l Layout, p content.Painting) templ.Component {
	return page(l, jsonLD(PaintingJsonLD(l.Site, p)), func(w *writer) {
		w.raw(`<article class="painting-detail"><img`)
		w.url("src", p.ImageURL)
		w.attr("alt", paintingAlt(p))
		w.raw(`><div class="info">`)
		w.elem("h1", p.Title)
		if d := Dimensions(p); d != "" {
			w.raw(`<p class="dimensions">`)
			w.text(d)
			w.raw("</p>")
		}
		if p.Sold {
			w.raw(`<p class="badge">Vendu</p>`)
		} else {
			if price := FormatPrice(p.Price); price != "" {
				w.raw(`<p class="price">`)
				w.text(price)
				w.raw("</p>")
			}
			if p.MarketplaceURL != "" {
				w.raw(`<p><a class="buy"`)
				w.url("href", SafeURL(p.MarketplaceURL))
				w.raw(` rel="noopener">Acheter</a></p>`)
			}
		}
		if p.Description != "" {
			w.raw(`<div class="description">`)
			w.render(markdown.Markdown(p.Description))
			w.raw("</div>")
		}
		w.raw(`</div></article><p><a href="/">&larr; Toutes les œuvres</a></p>`)
	})
}

// Biography renders the artist's biography.
func Biography(l Layout, b content.Biography) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<article class="biography">`)
		if l.Meta.H1 != "" {
			w.elem("h1", l.Meta.H1)
		}
		if b.ImageURL != "" {
			w.raw(`<img class="portrait"`)
			w.url("src", b.ImageURL)
			w.attr("alt", l.NavbarTitle())
			w.raw(">")
		}
		if b.Content != "" {
			w.raw(`<div class="prose">`)
			w.render(markdown.Markdown(b.Content))
			w.raw("</div>")
		} else {
			empty(w, "Biographie à venir.")
		}
		w.raw("</article>")
	})
}

func writeByline(w *writer, r content.Review) {
	w.raw(`<p class="byline">`)
	w.text(byline(r))
	w.raw("</p>")
}

// Reviews lists the press reviews, articles and posts.
func Reviews(l Layout, reviews []content.Review) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<section class="reviews">`)
		heading(w, l.Meta, "Presse")
		if len(reviews) == 0 {
			empty(w, "Aucun article pour le moment.")
		}
		for _, r := range reviews {
			w.raw("<article")
			w.attr("class", "review-card type-"+r.Type)
			w.raw("><h2><a")
			w.attr("href", reviewRoute(r))
			w.raw(">")
			w.text(r.Title)
			w.raw("</a></h2>")
			writeByline(w, r)
			if ex := markdown.PlainText(r.Content, 240); ex != "" {
				w.elem("p", ex)
			}
			w.raw("</article>")
		}
		w.raw("</section>")
	})
}

// Review is the detail page of one review.
func Review(l Layout, r content.Review) templ.Component {
	return page(l, jsonLD(ReviewJsonLD(l.Site, r)), func(w *writer) {
		w.raw("<article")
		w.attr("class", "review type-"+r.Type)
		w.raw(">")
		w.elem("h1", r.Title)
		writeByline(w, r)
		if r.ImageURL != "" {
			w.raw("<img")
			w.url("src", r.ImageURL)
			w.attr("alt", r.Title)
			w.raw(">")
		}
		w.raw(`<div class="prose">`)
		w.render(markdown.Markdown(r.Content))
		w.raw(`</div></article><p><a href="/reviews/">&larr; Toute la presse</a></p>`)
	})
}

// Contact shows the contact details and the external links.
func Contact(l Layout) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<section class="contact">`)
		heading(w, l.Meta, "Contact")
		w.raw("<ul>")
		if email := l.Settings.ContactEmail; email != "" {
			w.raw("<li><a")
			w.url("href", "mailto:"+email)
			w.raw(">")
			w.text(email)
			w.raw("</a></li>")
		}
		if phone := l.Settings.ContactPhone; phone != "" {
			w.raw("<li><a")
			w.url("href", "tel:"+phone)
			w.raw(">")
			w.text(phone)
			w.raw("</a></li>")
		}
		for _, link := range l.Links {
			w.raw("<li><a")
			w.url("href", SafeURL(link.URL))
			w.attr("class", "icon-"+link.Icon)
			w.raw(` rel="noopener">`)
			w.text(link.Label)
			w.raw("</a></li>")
		}
		w.raw("</ul></section>")
	})
}

func NotFound(l Layout) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<section class="error"><h1>Page introuvable</h1>`)
		w.raw(`<p>Cette page n&#39;existe pas ou a été déplacée.</p>`)
		w.raw(`<p><a href="/">Retour à l&#39;accueil</a></p></section>`)
	})
}

func ServerError(l Layout) templ.Component {
	return page(l, nil, func(w *writer) {
		w.raw(`<section class="error"><h1>Une erreur est survenue</h1>`)
		w.raw(`<p>Merci de réessayer dans quelques instants.</p></section>`)
	})
}
