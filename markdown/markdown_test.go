package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestHTMLHeadingsAndEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Biographie", "<h1>Biographie</h1>"},
		{"## Expositions", "<h2>Expositions</h2>"},
		{"**huile** sur toile", "<strong>huile</strong> sur toile"},
		{"*acrylique*", "<em>acrylique</em>"},
		{"~~vendu~~", "<del>vendu</del>"},
	}
	for _, tt := range tests {
		got := HTML(tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("HTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestHTMLHardWraps(t *testing.T) {
	got := HTML("Née à Sète\nvit à Lyon")
	if !strings.Contains(got, "<br />") {
		t.Errorf("expected a line break, got %q", got)
	}
}

func TestHTMLDropsRawHTML(t *testing.T) {
	got := HTML("<script>alert(1)</script>\n\ntexte")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML must not be rendered, got %q", got)
	}
	if !strings.Contains(got, "<p>texte</p>") {
		t.Errorf("expected the paragraph to survive, got %q", got)
	}
}

func TestHTMLBlanksDangerousLinks(t *testing.T) {
	got := HTML("[clic](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("dangerous scheme must be removed, got %q", got)
	}
	got = HTML("[galerie](https://example.com/expo)")
	if !strings.Contains(got, `href="https://example.com/expo"`) {
		t.Errorf("expected the link to be kept, got %q", got)
	}
}

func TestHTMLTable(t *testing.T) {
	got := HTML("| Année | Lieu |\n|---|---|\n| 2021 | Arles |")
	for _, want := range []string{"<table>", "<th>Année</th>", "<td>Arles</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("Un *beau* tableau").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "<em>beau</em>") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected string
	}{
		{"# Titre\n\nUn *beau* tableau.", 0, "Titre Un beau tableau."},
		{"ligne un\nligne deux", 0, "ligne un ligne deux"},
		{"- rouge\n- bleu", 0, "rouge bleu"},
		{"[site](https://example.com) officiel", 0, "site officiel"},
		{"Une longue description", 10, "Une longue…"},
		{"court", 10, "court"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		got := PlainText(tt.input, tt.limit)
		if got != tt.expected {
			t.Errorf("PlainText(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.expected)
		}
	}
}
