package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/atelier/content"
)

const imageTypes = "image/jpeg,image/png,image/webp"

// AdminLogin is the sign-in form.
func AdminLogin(site SiteConfig, showError bool, csrfToken string) templ.Component {
	return adminPage(site, csrfToken, func(w *writer) {
		w.raw(`<form class="login" method="post" action="/admin/login/">`)
		w.elem("h1", site.Name)
		if showError {
			w.raw(`<p class="error">Identifiants invalides.</p>`)
		}
		csrfField(w, csrfToken)
		w.raw(`<label>Utilisateur <input name="username" autocomplete="username" required></label>`)
		w.raw(`<label>Mot de passe <input type="password" name="password" autocomplete="current-password" required></label>`)
		w.raw(`<button type="submit">Connexion</button></form>`)
	})
}

func csrfField(w *writer, token string) {
	w.raw(`<input type="hidden" name="_csrf"`)
	w.attr("value", token)
	w.raw(">")
}

// adminForm opens a form submitted by the dashboard script. method is empty
// for POST.
func adminForm(w *writer, action, method, confirm string, multipart bool) {
	w.raw("<form data-admin")
	w.optAttr("data-method", method)
	w.optAttr("data-confirm", confirm)
	w.attr("action", action)
	if multipart {
		w.raw(` enctype="multipart/form-data"`)
	}
	w.raw(">")
}

func button(w *writer, label string) {
	w.raw(`<button type="submit">`)
	w.text(label)
	w.raw("</button>")
}

func deleteForm(w *writer, action, confirm string) {
	adminForm(w, action, "DELETE", confirm, false)
	button(w, "Supprimer")
	w.raw("</form>")
}

// input writes a labelled text input. extra is trusted attribute markup.
func input(w *writer, label, name, value, extra string) {
	w.raw("<label>")
	w.text(label)
	w.raw(" <input")
	w.attr("name", name)
	w.attr("value", value)
	w.raw(extra, "></label>")
}

func textarea(w *writer, label, name, value string, rows int) {
	w.raw("<label>")
	w.text(label)
	w.raw(" <textarea")
	w.attr("name", name)
	w.attr("rows", strconv.Itoa(rows))
	w.raw(">")
	w.text(value)
	w.raw("</textarea></label>")
}

func fileInput(w *writer, label, name, accept string, required bool) {
	w.raw("<label>")
	w.text(label)
	w.raw(` <input type="file"`)
	w.attr("name", name)
	w.attr("accept", accept)
	w.flag("required", required)
	w.raw("></label>")
}

func hidden(w *writer, name, value string) {
	w.raw(`<input type="hidden"`)
	w.attr("name", name)
	w.attr("value", value)
	w.raw(">")
}

func selectField(w *writer, label, name, selected string, options []string, text func(string) string) {
	w.raw("<label>")
	w.text(label)
	w.raw(" <select")
	w.attr("name", name)
	w.raw(">")
	for _, o := range options {
		w.raw("<option")
		w.attr("value", o)
		w.flag("selected", o == selected)
		w.raw(">")
		w.text(text(o))
		w.raw("</option>")
	}
	w.raw("</select></label>")
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func paintingFields(w *writer, p content.Painting) {
	input(w, "Titre", "title", p.Title, " required")
	input(w, "Slug", "slug", p.Slug, "")
	textarea(w, "Description", "description", p.Description, 4)
	price := ""
	if p.Price != nil {
		price = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	}
	input(w, "Prix", "price", price, ` inputmode="decimal"`)
	dim := func(v int) string {
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	}
	input(w, "Largeur (cm)", "width", dim(p.Width), ` inputmode="numeric"`)
	input(w, "Hauteur (cm)", "height", dim(p.Height), ` inputmode="numeric"`)
	w.raw(`<label><input type="checkbox" name="sold" value="1"`)
	w.flag("checked", p.Sold)
	w.raw("> Vendu</label>")
	input(w, "Lien boutique", "marketplaceUrl", p.MarketplaceURL, ` type="url"`)
	input(w, "Titre SEO", "seoTitle", p.SeoTitle, "")
	input(w, "Description SEO", "seoDescription", p.SeoDescription, "")
	input(w, "Texte alternatif", "seoAltText", p.SeoAltText, "")
}

func reviewFields(w *writer, r content.Review) {
	input(w, "Titre", "title", r.Title, " required")
	input(w, "Slug", "slug", r.Slug, "")
	input(w, "Auteur", "author", r.Author, "")
	input(w, "Source", "source", r.Source, "")
	input(w, "Date", "date", r.Date, "")
	selectField(w, "Type", "type", r.Type, content.ReviewTypes, func(s string) string { return s })
	textarea(w, "Texte", "content", r.Content, 8)
	fileInput(w, "Image", "image", imageTypes, false)
	input(w, "Titre SEO", "seoTitle", r.SeoTitle, "")
	input(w, "Description SEO", "seoDescription", r.SeoDescription, "")
}

func linkFields(w *writer, l content.ExternalLink) {
	input(w, "Libellé", "label", l.Label, " required")
	input(w, "URL", "url", l.URL, " required")
	selectField(w, "Icône", "icon", l.Icon, content.LinkIcons, IconLabel)
}

// suggestForm asks the AI endpoint for SEO text; the script fills the form
// right before it.
func suggestForm(w *writer, label string, fields ...string) {
	w.raw(`<form data-admin data-fill action="/admin/ai/seo/">`)
	for i := 0; i+1 < len(fields); i += 2 {
		hidden(w, fields[i], fields[i+1])
	}
	button(w, label)
	w.raw("</form>")
}

// AdminDashboard is the single-page back-office.
func AdminDashboard(d Dashboard) templ.Component {
	return adminPage(d.Site, d.CSRFToken, func(w *writer) {
		w.raw(`<header class="admin-header">`)
		w.elem("h1", d.Site.Name)
		w.raw(`<a href="/" target="_blank" rel="noopener">Voir le site</a>`)
		w.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(w, d.CSRFToken)
		w.raw(`<button type="submit">Déconnexion</button></form></header>`)
		w.raw(`<p id="flash" class="flash" role="status">`)
		w.text(d.Message)
		w.raw("</p>")

		dashboardPaintings(w, d)
		dashboardBiography(w, d.Biography)
		dashboardReviews(w, d.Reviews)
		dashboardSettings(w, d.Settings)
		dashboardLinks(w, d.Links)
		dashboardSeo(w, d)
		dashboardMaintenance(w)
		w.raw("<script>", dashboardScript, "</script>")
	})
}

func dashboardPaintings(w *writer, d Dashboard) {
	w.raw(`<section id="paintings"><h2>Œuvres (`, strconv.Itoa(len(d.Paintings)), ")</h2>")
	w.raw("<details><summary>Ajouter une œuvre</summary>")
	adminForm(w, "/admin/paintings/", "", "", true)
	paintingFields(w, content.Painting{})
	fileInput(w, "Image", "image", imageTypes, true)
	button(w, "Créer")
	w.raw(`</form></details><ul class="rows">`)
	for _, p := range d.Paintings {
		base := "/admin/paintings/" + id(p.ID) + "/"
		w.raw("<li><img")
		w.url("src", p.ImageURL)
		w.raw(` alt="" width="64"> `)
		w.elem("strong", p.Title)
		w.raw(" ")
		if p.Sold {
			w.raw("<em>vendu</em>")
		} else {
			w.text(FormatPrice(p.Price))
		}
		adminForm(w, base+"sold/", "", "", false)
		if p.Sold {
			button(w, "Disponible")
		} else {
			button(w, "Vendu")
		}
		w.raw("</form>")
		deleteForm(w, base, "Supprimer cette œuvre ?")
		w.raw("<details><summary>Modifier</summary>")
		adminForm(w, base, "", "", true)
		paintingFields(w, p)
		fileInput(w, "Nouvelle image", "image", imageTypes, false)
		button(w, "Enregistrer")
		w.raw("</form>")
		if d.AIEnabled {
			suggestForm(w, "Suggérer le SEO", "kind", "painting", "id", id(p.ID))
		}
		w.raw("</details></li>")
	}
	w.raw("</ul></section>")
}

func dashboardBiography(w *writer, b content.Biography) {
	w.raw(`<section id="biography"><h2>Biographie</h2>`)
	adminForm(w, "/admin/biography/", "", "", true)
	w.raw(`<textarea name="content" rows="14">`)
	w.text(b.Content)
	w.raw("</textarea>")
	if b.ImageURL != "" {
		w.raw("<img")
		w.url("src", b.ImageURL)
		w.raw(` alt="" width="96">`)
		w.raw(`<label><input type="checkbox" name="removeImage" value="1"> Retirer le portrait</label>`)
	}
	fileInput(w, "Portrait", "image", imageTypes, false)
	button(w, "Enregistrer")
	w.raw("</form></section>")
}

func dashboardReviews(w *writer, reviews []content.Review) {
	w.raw(`<section id="reviews"><h2>Presse (`, strconv.Itoa(len(reviews)), ")</h2>")
	w.raw("<details><summary>Ajouter un article</summary>")
	adminForm(w, "/admin/reviews/", "", "", true)
	reviewFields(w, content.Review{Type: content.ReviewTypeReview})
	button(w, "Créer")
	w.raw(`</form></details><ul class="rows">`)
	for _, r := range reviews {
		base := "/admin/reviews/" + id(r.ID) + "/"
		w.raw("<li>")
		w.elem("strong", r.Title)
		w.raw(" ")
		w.text(r.Author)
		w.raw(" ")
		w.elem("small", r.Type)
		deleteForm(w, base, "Supprimer cet article ?")
		w.raw("<details><summary>Modifier</summary>")
		adminForm(w, base, "", "", true)
		reviewFields(w, r)
		button(w, "Enregistrer")
		w.raw("</form></details></li>")
	}
	w.raw("</ul></section>")
}

func dashboardSettings(w *writer, st content.Settings) {
	w.raw(`<section id="settings"><h2>Réglages</h2>`)
	adminForm(w, "/admin/settings/", "", "", false)
	input(w, "Titre du site", "navbarTitle", st.NavbarTitle, "")
	input(w, "E-mail", "contactEmail", st.ContactEmail, ` type="email"`)
	input(w, "Téléphone", "contactPhone", st.ContactPhone, "")
	button(w, "Enregistrer")
	w.raw("</form><h3>Icônes</h3>")
	for _, icon := range []struct{ kind, label string }{
		{"favicon", "Favicon"},
		{"apple-touch-icon", "Icône mobile"},
	} {
		adminForm(w, "/admin/icons/"+icon.kind+"/", "", "", true)
		fileInput(w, icon.label, "image", "image/png,image/jpeg", true)
		button(w, "Envoyer")
		w.raw("</form>")
	}
	w.raw("</section>")
}

func dashboardLinks(w *writer, links []content.ExternalLink) {
	w.raw(`<section id="links"><h2>Liens</h2>`)
	w.raw(`<form data-admin action="/admin/links/reorder/" id="reorder"><ol class="rows">`)
	for _, l := range links {
		w.raw("<li>")
		hidden(w, "ids", id(l.ID))
		w.elem("strong", l.Label)
		w.raw(" ")
		w.elem("small", l.Icon)
		w.raw(`<button type="button" data-move="up">↑</button><button type="button" data-move="down">↓</button></li>`)
	}
	w.raw("</ol>")
	if len(links) > 0 {
		button(w, "Enregistrer l'ordre")
	}
	w.raw("</form>")
	for _, l := range links {
		base := "/admin/links/" + id(l.ID) + "/"
		w.raw("<details>")
		w.elem("summary", l.Label)
		adminForm(w, base, "", "", false)
		linkFields(w, l)
		button(w, "Enregistrer")
		w.raw("</form>")
		deleteForm(w, base, "")
		w.raw("</details>")
	}
	w.raw("<details><summary>Ajouter un lien</summary>")
	adminForm(w, "/admin/links/", "", "", false)
	linkFields(w, content.ExternalLink{})
	button(w, "Créer")
	w.raw("</form></details></section>")
}

func dashboardSeo(w *writer, d Dashboard) {
	w.raw(`<section id="seo"><h2>SEO</h2>`)
	for _, key := range content.PageKeys {
		m := d.Seo[key]
		w.raw("<details>")
		w.elem("summary", key)
		adminForm(w, "/admin/seo/"+key+"/", "", "", false)
		input(w, "Titre", "title", m.Title, "")
		input(w, "Sous-titre", "subtitle", m.Subtitle, "")
		input(w, "H1", "h1", m.H1, "")
		textarea(w, "Description", "description", m.Description, 3)
		input(w, "Texte alternatif", "imageAlt", m.ImageAlt, "")
		button(w, "Enregistrer")
		w.raw("</form>")
		if d.AIEnabled {
			suggestForm(w, "Suggérer", "kind", "page", "key", key)
		}
		w.raw("</details>")
	}
	w.raw("</section>")
}

func dashboardMaintenance(w *writer) {
	w.raw(`<section id="maintenance"><h2>Sauvegarde</h2>`)
	w.raw(`<p><a href="/admin/backup/export/" download>Télécharger une sauvegarde</a></p>`)
	adminForm(w, "/admin/backup/import/", "", "Toutes les données actuelles seront remplacées. Continuer ?", true)
	fileInput(w, "Archive", "backup", ".zip,application/zip", true)
	w.raw(`<label>Tapez RESTORE pour confirmer <input name="confirm" autocomplete="off" required></label>`)
	button(w, "Restaurer")
	w.raw("</form><h2>Fichiers</h2>")
	adminForm(w, "/admin/sync/", "", "", false)
	button(w, "Synchroniser depuis les fichiers")
	w.raw(`</form><p><a href="/admin/audit/">Vérifier les images</a></p></section>`)
}

const dashboardScript = `
(function () {
	var token = document.body.dataset.csrf;
	var flash = document.getElementById("flash");
	document.querySelectorAll("form[data-admin]").forEach(function (form) {
		form.addEventListener("submit", function (ev) {
			ev.preventDefault();
			if (form.dataset.confirm && !confirm(form.dataset.confirm)) return;
			fetch(form.getAttribute("action"), {
				method: form.dataset.method || "POST",
				headers: { "X-CSRF-Token": token },
				body: form.dataset.method === "DELETE" ? null : new FormData(form),
				credentials: "same-origin"
			}).then(function (r) { return r.json(); }).then(function (res) {
				flash.textContent = res.message;
				if (form.hasAttribute("data-fill")) {
					if (res.success) fillSeo(form, res.data);
					return;
				}
				if (res.success) setTimeout(function () { location.reload(); }, 600);
			}).catch(function () { flash.textContent = "Erreur réseau."; });
		});
	});
	function fillSeo(form, s) {
		var target = form.previousElementSibling;
		if (!target) return;
		var set = function (name, v) { var el = target.querySelector("[name=" + name + "]"); if (el && v) el.value = v; };
		set("title", s.title); set("seoTitle", s.title);
		set("description", s.description); set("seoDescription", s.description);
		set("seoAltText", s.altText); set("imageAlt", s.altText);
	}
	document.querySelectorAll("[data-move]").forEach(function (btn) {
		btn.addEventListener("click", function () {
			var li = btn.closest("li");
			if (btn.dataset.move === "up" && li.previousElementSibling) li.parentNode.insertBefore(li, li.previousElementSibling);
			if (btn.dataset.move === "down" && li.nextElementSibling) li.parentNode.insertBefore(li.nextElementSibling, li);
		});
	});
})();
`
