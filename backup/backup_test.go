package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
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
	svc    *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := content.Open(filepath.Join(dir, "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	files := assets.New(filepath.Join(dir, "uploads"), "/uploads", nil)
	rec := &cache.Recorder{}
	svc := NewService(store, files, rec, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC) }
	return fixture{store: store, assets: files, rec: rec, svc: svc}
}

func (f fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	price := 950.0
	for _, p := range []content.Painting{
		{Slug: "dune", Title: "Dune", Description: "Sand", Price: &price, Width: 50, Height: 40, ImageURL: "/uploads/paintings/dune.jpg"},
		{Title: "Untitled", ImageURL: "/uploads/paintings/untitled.jpg", Sold: true, SeoAltText: "grey sky"},
	} {
		p := p
		require.NoError(t, f.store.CreatePainting(ctx, &p))
	}
	_, err := f.store.SaveBiography(ctx, "# Bio", "/uploads/biography/me.jpg")
	require.NoError(t, err)
	require.NoError(t, f.store.CreateReview(ctx, &content.Review{Title: "Press", Author: "Le Monde", Type: content.ReviewTypeArticle, Content: "Great"}))
	require.NoError(t, f.store.CreateLink(ctx, &content.ExternalLink{Label: "Insta", URL: "https://instagram.com/a", Icon: "instagram"}))
	require.NoError(t, f.store.SaveSeo(ctx, content.SeoMetadata{PageKey: content.PageHome, Title: "Home"}))
	_, err = f.store.SaveSettings(ctx, content.Settings{NavbarTitle: "Atelier", ContactEmail: "a@b.c"})
	require.NoError(t, err)

	require.NoError(t, f.assets.WriteFile("paintings/dune.jpg", strings.NewReader("dune-bytes")))
	require.NoError(t, f.assets.WriteFile("biography.md", strings.NewReader("# Bio")))
}

type entry struct{ name, body string }

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func importBytes(f fixture, name string, data []byte) (ImportReport, error) {
	return f.svc.Import(context.Background(), name, bytes.NewReader(data), int64(len(data)))
}

func counts(t *testing.T, s *content.Store) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, table := range content.Tables {
		n, err := s.Count(context.Background(), table)
		require.NoError(t, err)
		out[table] = n
	}
	return out
}

func TestExportLayout(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	arc, err := f.svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "atelier-backup-2025-06-14.zip", arc.Filename)

	zr, err := zip.NewReader(bytes.NewReader(arc.Data), int64(len(arc.Data)))
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, zf := range zr.File {
		names[zf.Name] = true
	}
	assert.True(t, names["content.json"])
	assert.True(t, names["assets/paintings/dune.jpg"])
	assert.True(t, names["assets/biography.md"])

	doc, err := readDocument(zr)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "2025-06-14T09:30:00Z", doc.ExportedAt)
	assert.Len(t, doc.Paintings, 2)
	assert.Len(t, doc.ExternalLinks, 1)
}

func TestExportWithoutAssetRoot(t *testing.T) {
	f := newFixture(t)
	arc, err := f.svc.Export(context.Background())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(arc.Data), int64(len(arc.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "content.json", zr.File[0].Name)
}

func TestRoundTrip(t *testing.T) {
	src := newFixture(t)
	src.seed(t)
	ctx := context.Background()

	before, err := src.store.Snapshot(ctx)
	require.NoError(t, err)
	arc, err := src.svc.Export(ctx)
	require.NoError(t, err)

	dst := newFixture(t)
	report, err := importBytes(dst, arc.Filename, arc.Data)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows["paintings"])
	assert.Equal(t, 0, report.AssetFailures)
	assert.Equal(t, 2, report.FilesWritten)

	after, err := dst.store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, after.Paintings, len(before.Paintings))
	for i := range before.Paintings {
		b, a := before.Paintings[i], after.Paintings[i]
		assert.True(t, b.CreatedAt.Equal(a.CreatedAt))
		b.CreatedAt, a.CreatedAt = time.Time{}, time.Time{}
		assert.Equal(t, b, a)
	}
	assert.Equal(t, before.Biography, after.Biography)
	assert.Equal(t, before.ExternalLinks, after.ExternalLinks)
	assert.Equal(t, before.SeoMetadata, after.SeoMetadata)
	assert.Equal(t, before.Settings, after.Settings)
	require.Len(t, after.Reviews, 1)
	assert.Equal(t, before.Reviews[0].Content, after.Reviews[0].Content)

	got, err := dst.assets.ReadFile("paintings/dune.jpg")
	require.NoError(t, err)
	assert.Equal(t, "dune-bytes", string(got))

	assert.ElementsMatch(t, cache.AllTags, dst.rec.Tags())
	assert.True(t, dst.rec.Layout())
}

func TestImportReplacesAssets(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.assets.WriteFile("paintings/stale.jpg", strings.NewReader("old")))

	data := buildZip(t,
		entry{"content.json", `{"paintings": [], "biography": []}`},
		entry{"assets/paintings/fresh.jpg", "new"},
	)
	_, err := importBytes(f, "b.zip", data)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(f.assets.Root(), "paintings", "stale.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(f.assets.Root(), "paintings", "fresh.jpg"))
	assert.NoError(t, err)
}

func TestImportPartialArchive(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	data := buildZip(t, entry{"content.json", `{
		"paintings": [{"id": 3, "title": "Only", "imageUrl": "/uploads/paintings/only.jpg", "createdAt": "2024-01-02T03:04:05Z"}],
		"biography": [{"id": 1, "content": "# New"}]
	}`})
	_, err := importBytes(f, "partial.ZIP", data)
	require.NoError(t, err)

	c := counts(t, f.store)
	assert.Equal(t, 1, c["paintings"])
	assert.Equal(t, 1, c["biography"])
	assert.Equal(t, 0, c["external_links"])
	assert.Equal(t, 0, c["seo_metadata"])
	assert.Equal(t, 0, c["reviews"])
	assert.Equal(t, 0, c["settings"])
}

func TestImportValidation(t *testing.T) {
	noDoc := buildZip(t, entry{"assets/a.jpg", "x"})
	badJSON := buildZip(t, entry{"content.json", "{not json"})
	noBio := buildZip(t, entry{"content.json", `{"paintings": []}`})

	tests := []struct {
		name     string
		filename string
		data     []byte
		message  string
	}{
		{"wrong extension", "backup.tar", noDoc, "The file must be a .zip backup."},
		{"not a zip", "backup.zip", []byte("plain text"), "The file is not a readable zip archive."},
		{"missing document", "backup.zip", noDoc, "The backup has no content.json file."},
		{"bad json", "backup.zip", badJSON, "The backup data file is not valid JSON."},
		{"missing section", "backup.zip", noBio, "The backup is missing required data (biography)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t)
			before := counts(t, f.store)

			_, err := importBytes(f, tt.filename, tt.data)
			require.ErrorIs(t, err, ErrInvalidArchive)
			assert.Equal(t, tt.message, UserMessage(err))
			assert.Equal(t, before, counts(t, f.store))
			assert.Empty(t, f.rec.Calls)

			bio, ok := f.assets.ReadBiography()
			assert.True(t, ok, "assets must be untouched")
			assert.Equal(t, "# Bio", bio)
		})
	}
}

func TestImportIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	before, err := f.store.Snapshot(ctx)
	require.NoError(t, err)

	doc := map[string]any{
		"paintings": []map[string]any{
			{"id": 1, "title": "ok", "imageUrl": "/uploads/a.jpg"},
		},
		"biography": []map[string]any{{"id": 1, "content": "x"}},
		"seoMetadata": []map[string]any{
			{"id": 1, "pageKey": "home"},
			{"id": 2, "pageKey": "not-a-page"},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	data := buildZip(t, entry{"content.json", string(raw)}, entry{"assets/x.jpg", "x"})

	_, err = importBytes(f, "broken.zip", data)
	require.ErrorIs(t, err, ErrCorruptBackup)
	assert.Equal(t, "The backup is corrupted or incomplete.", UserMessage(err))

	after, err := f.store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = f.assets.ReadFile("x.jpg")
	assert.Error(t, err, "assets are only touched after commit")
	_, err = f.assets.ReadFile("paintings/dune.jpg")
	assert.NoError(t, err)
}

func TestImportSequenceRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data := buildZip(t, entry{"content.json", `{
		"paintings": [
			{"id": 5, "imageUrl": "/uploads/paintings/a.jpg"},
			{"id": 42, "imageUrl": "/uploads/paintings/b.jpg"}
		],
		"biography": null
	}`})
	_, err := importBytes(f, "seq.zip", data)
	require.NoError(t, err)

	p := content.Painting{Title: "next", ImageURL: "/uploads/paintings/c.jpg"}
	require.NoError(t, f.store.CreatePainting(ctx, &p))
	assert.Equal(t, int64(43), p.ID)
}

func TestImportSkipsEscapingEntries(t *testing.T) {
	f := newFixture(t)
	data := buildZip(t,
		entry{"content.json", `{"paintings": [], "biography": []}`},
		entry{"assets/../../evil.txt", "x"},
		entry{"assets/ok.txt", "fine"},
	)
	report, err := importBytes(f, "b.zip", data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesWritten)
	assert.Equal(t, 1, report.AssetFailures)
	assert.Equal(t, "Database restored; 1 asset file(s) could not be restored.", report.Message())

	_, err = os.Stat(filepath.Join(filepath.Dir(filepath.Dir(f.assets.Root())), "evil.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportIsRepeatable(t *testing.T) {
	src := newFixture(t)
	src.seed(t)
	arc, err := src.svc.Export(context.Background())
	require.NoError(t, err)

	dst := newFixture(t)
	for i := 0; i < 2; i++ {
		_, err := importBytes(dst, arc.Filename, arc.Data)
		require.NoError(t, err)
	}
	assert.Equal(t, counts(t, src.store), counts(t, dst.store))
}

func TestImportRejectsOversizedDocument(t *testing.T) {
	defer func(n int64) { maxDocumentSize = n }(maxDocumentSize)
	maxDocumentSize = 64

	f := newFixture(t)
	f.seed(t)
	before := counts(t, f.store)

	doc := `{"paintings": [], "biography": [], "reviews": [], "settings": [], "padding": "` + strings.Repeat("x", 128) + `"}`
	_, err := importBytes(f, "backup.zip", buildZip(t, entry{"content.json", doc}))
	require.ErrorIs(t, err, ErrInvalidArchive)
	assert.Equal(t, "The backup data file is too large.", UserMessage(err))
	assert.Equal(t, before, counts(t, f.store))
	assert.Empty(t, f.rec.Calls)
}
