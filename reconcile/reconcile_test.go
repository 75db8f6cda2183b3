package reconcile

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

type fixture struct {
	store  *content.Store
	assets *assets.Store
	rec    *cache.Recorder
	rc     *Reconciler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := content.Open(filepath.Join(dir, "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	files := assets.New(filepath.Join(dir, "uploads"), "/uploads", nil)
	rec := &cache.Recorder{}
	rc := New(store, files, rec, nil)
	rc.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	return fixture{store: store, assets: files, rec: rec, rc: rc}
}

func (f fixture) write(t *testing.T, rel, body string) {
	t.Helper()
	require.NoError(t, f.assets.WriteFile(rel, strings.NewReader(body)))
}

func TestMinimalPaintingRow(t *testing.T) {
	f := newFixture(t)
	f.write(t, "paintings/Sunset_Over_Hills.jpg", "img")
	ctx := context.Background()

	report, err := f.rc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Paintings)

	paintings, err := f.store.ListPaintings(ctx)
	require.NoError(t, err)
	require.Len(t, paintings, 1)
	p := paintings[0]
	assert.Equal(t, "Sunset Over Hills", p.Title)
	assert.False(t, p.Sold)
	assert.Equal(t, 0, p.Width)
	assert.Equal(t, 0, p.Height)
	assert.Empty(t, p.Description)
	assert.Nil(t, p.Price)
	assert.Equal(t, "/uploads/paintings/Sunset_Over_Hills.jpg", p.ImageURL)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.write(t, "paintings/a.jpg", "a")
	f.write(t, "paintings/b.PNG", "b")
	f.write(t, "paintings/notes.txt", "ignored")
	f.write(t, "reviews/Jean Dupont.md", "Superbe exposition.")
	ctx := context.Background()

	first, err := f.rc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Paintings)
	assert.Equal(t, 1, first.Reviews)

	second, err := f.rc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Paintings)
	assert.Equal(t, 0, second.Reviews)
	assert.False(t, second.BiographySeeded)

	n, err := f.store.Count(ctx, "paintings")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = f.store.Count(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestKnownPaintingsAreSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreatePainting(ctx, &content.Painting{Title: "Kept", ImageURL: "/uploads/paintings/kept.jpg"}))
	f.write(t, "paintings/kept.jpg", "k")

	report, err := f.rc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Paintings)
}

func TestReviewRows(t *testing.T) {
	f := newFixture(t)
	f.write(t, "reviews/Marie Curie.md", "# Lumineux\n\nUn travail remarquable.")
	ctx := context.Background()

	_, err := f.rc.Run(ctx)
	require.NoError(t, err)

	reviews, err := f.store.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	rv := reviews[0]
	assert.Equal(t, "Marie Curie", rv.Author)
	assert.Equal(t, "Marie Curie", rv.Title)
	assert.Equal(t, ReviewSource, rv.Source)
	assert.Equal(t, content.ReviewTypeReview, rv.Type)
	assert.Equal(t, "2025-02-03T04:05:06Z", rv.Date)
	assert.Equal(t, "# Lumineux\n\nUn travail remarquable.", rv.Content)
}

func TestReviewDedupeByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreateReview(ctx, &content.Review{Title: "Press", Author: "Le Monde"}))
	f.write(t, "reviews/Le Monde.md", "another text by the same author")

	report, err := f.rc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Reviews)
}

func TestMissingDirectoriesAreEmpty(t *testing.T) {
	f := newFixture(t)
	report, err := f.rc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Paintings)
	assert.Equal(t, 0, report.Reviews)
	assert.True(t, f.rec.Layout(), "layout is invalidated even when nothing changed")
}

func TestBiographySeeding(t *testing.T) {
	t.Run("placeholder", func(t *testing.T) {
		f := newFixture(t)
		report, err := f.rc.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.BiographySeeded)
		bio, ok := f.assets.ReadBiography()
		require.True(t, ok)
		assert.Equal(t, BiographyPlaceholder, bio)
	})

	t.Run("from database", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.SaveBiography(context.Background(), "# Née à Sète", "")
		require.NoError(t, err)
		_, err = f.rc.Run(context.Background())
		require.NoError(t, err)
		bio, _ := f.assets.ReadBiography()
		assert.Equal(t, "# Née à Sète", bio)
	})

	t.Run("existing file kept", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, "biography.md", "# Mine")
		report, err := f.rc.Run(context.Background())
		require.NoError(t, err)
		assert.False(t, report.BiographySeeded)
		bio, _ := f.assets.ReadBiography()
		assert.Equal(t, "# Mine", bio)
	})
}

func TestRunInvalidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.rc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{cache.TagPaintings, cache.TagReviews, cache.TagBiography}, f.rec.Tags())
	assert.True(t, f.rec.Layout())
}

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"Sunset_Over_Hills.jpg":   "Sunset Over Hills",
		"la-mer--bleue.webp":      "la mer bleue",
		"  spaced _ out .jpeg":    "spaced out",
		"no-extension":            "no extension",
		"multi.dots.in.name.png":  "multi.dots.in.name",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleFromFilename(in), in)
	}
}

func TestAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreatePainting(ctx, &content.Painting{Title: "Gone", ImageURL: "/uploads/paintings/gone.jpg"}))
	require.NoError(t, f.store.CreatePainting(ctx, &content.Painting{Title: "Here", ImageURL: "/uploads/paintings/here.jpg"}))
	require.NoError(t, f.store.CreatePainting(ctx, &content.Painting{Title: "CDN", ImageURL: "https://cdn.example/x.jpg"}))
	f.write(t, "paintings/here.jpg", "h")
	f.write(t, "paintings/extra.jpg", "e")

	report, err := f.rc.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "Gone", report.Missing[0].Title)
	assert.Equal(t, []string{"/uploads/paintings/extra.jpg"}, report.Orphaned)
	assert.False(t, report.Clean())

	n, err := f.store.Count(ctx, "paintings")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "audit never writes")
}
