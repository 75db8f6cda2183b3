package admin

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/atelier/ai"
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
	svc := New(Deps{Store: store, Assets: files, Cache: rec, SiteName: "Atelier"})
	return fixture{store: store, assets: files, rec: rec, svc: svc}
}

func pngFile(t *testing.T, name string) *File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	data := buf.Bytes()
	return &File{Name: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func form(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func (f fixture) painting(t *testing.T, slug string) content.Painting {
	t.Helper()
	res := f.svc.CreatePainting(context.Background(), form("title", "Dune", "slug", slug, "price", "1 200,50"), pngFile(t, "dune.png"))
	require.True(t, res.Success, res.Message)
	f.rec.Reset()
	return res.Data.(content.Painting)
}

func TestCreatePainting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.svc.CreatePainting(ctx, form("title", "Dune", "slug", "Dune Rouge", "price", "1 200,50", "width", "80", "height", "60"), pngFile(t, "dune.png"))
	require.True(t, res.Success, res.Message)
	p := res.Data.(content.Painting)
	assert.Equal(t, "dune-rouge", p.Slug)
	require.NotNil(t, p.Price)
	assert.Equal(t, 1200.5, *p.Price)

	path, ok := f.assets.PathFor(p.ImageURL)
	require.True(t, ok)
	assert.FileExists(t, path)
}

func TestCreatePaintingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		form url.Values
		file *File
		want string
	}{
		{"bad price", form("title", "x", "price", "cheap"), pngFile(t, "a.png"), "Price must be a number."},
		{"no title", form("price", "10"), pngFile(t, "a.png"), "Title is required."},
		{"no image", form("title", "x"), nil, "An image is required."},
		{"bad dimension", form("title", "x", "width", "wide"), pngFile(t, "a.png"), "Width and height must be whole numbers."},
		{"not an image", form("title", "x"), &File{Name: "a.png", Size: 3, Content: bytes.NewReader([]byte("abc"))}, "The image could not be read. Use a JPEG, PNG or WebP file."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.svc.CreatePainting(ctx, tt.form, tt.file)
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
		})
	}
	n, err := f.store.Count(ctx, "paintings")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.rec.Calls, "failed mutations invalidate nothing")
}

func TestDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.painting(t, "dune")
	res := f.svc.CreatePainting(context.Background(), form("title", "Other", "slug", "dune"), pngFile(t, "o.png"))
	assert.False(t, res.Success)
	assert.Equal(t, "This slug is already used.", res.Message)
}

func TestUpdatePaintingReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.painting(t, "dune")
	oldPath, _ := f.assets.PathFor(p.ImageURL)

	res := f.svc.UpdatePainting(ctx, p.ID, form("title", "Dune II", "slug", "dune-ii"), pngFile(t, "dune2.png"))
	require.True(t, res.Success, res.Message)
	updated := res.Data.(content.Painting)
	assert.NotEqual(t, p.ImageURL, updated.ImageURL)
	assert.NoFileExists(t, oldPath)

	assert.Equal(t, []string{"/", "/sitemap.xml", "/feed.xml", "/paintings/dune/", "/paintings/dune-ii/", "/paintings/1/"}, f.rec.Pages())
}

func TestDeletePaintingRemovesImage(t *testing.T) {
	f := newFixture(t)
	p := f.painting(t, "dune")
	path, _ := f.assets.PathFor(p.ImageURL)

	res := f.svc.DeletePainting(context.Background(), p.ID)
	require.True(t, res.Success)
	assert.NoFileExists(t, path)

	res = f.svc.DeletePainting(context.Background(), p.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "Painting not found.", res.Message)
}

func TestToggleSold(t *testing.T) {
	f := newFixture(t)
	p := f.painting(t, "dune")

	res := f.svc.ToggleSold(context.Background(), p.ID)
	require.True(t, res.Success)
	assert.Equal(t, "Painting marked as sold.", res.Message)
	res = f.svc.ToggleSold(context.Background(), p.ID)
	assert.Equal(t, "Painting marked as available.", res.Message)
}

func TestSaveBiographyWritesBoth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.svc.SaveBiography(ctx, form("content", "# Née à Sète"), nil)
	require.True(t, res.Success, res.Message)

	text, ok := f.assets.ReadBiography()
	require.True(t, ok)
	assert.Equal(t, "# Née à Sète", text)
	b, err := f.store.GetOrCreateBiography(ctx)
	require.NoError(t, err)
	assert.Equal(t, "# Née à Sète", b.Content)
}

func TestBiographyPrefersFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.SaveBiography(ctx, "from db", "")
	require.NoError(t, err)

	b, err := f.svc.Biography(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from db", b.Content)

	require.NoError(t, f.assets.WriteBiography("from file"))
	b, err = f.svc.Biography(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from file", b.Content)
}

func TestSaveBiographyFileFailureKeepsPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.SaveBiography(ctx, "from db", "")
	require.NoError(t, err)
	// A directory where the file should be makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(f.assets.Root(), assets.BiographyFile), 0o755))

	res := f.svc.SaveBiography(ctx, form("content", "new text"), nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Could not save the biography.", res.Message)
	assert.Empty(t, f.rec.Calls)

	b, err := f.svc.Biography(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from db", b.Content)
}

func TestReviewImageTooLarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	big := pngFile(t, "scan.png")
	big.Size = assets.MaxUploadSize + 1

	res := f.svc.CreateReview(ctx, form("title", "Le Monde"), big)
	assert.False(t, res.Success)
	assert.Equal(t, "The image is too large.", res.Message)

	id := createReview(t, f)
	res = f.svc.UpdateReview(ctx, id, form("title", "Le Monde"), big)
	assert.False(t, res.Success)
	assert.Equal(t, "The image is too large.", res.Message)

	n, err := f.store.Count(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	res := f.svc.CreateReview(context.Background(), form("title", "x", "type", "podcast"), nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Unknown review type.", res.Message)
}

func TestLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.svc.CreateLink(ctx, form("label", "Insta", "url", "https://instagram.com/a", "icon", "myspace"))
	assert.Equal(t, "Unknown icon.", res.Message)
	res = f.svc.CreateLink(ctx, form("label", "Insta", "url", "javascript:alert(1)", "icon", "instagram"))
	assert.False(t, res.Success)

	a := f.svc.CreateLink(ctx, form("label", "Insta", "url", "https://instagram.com/a", "icon", "instagram"))
	b := f.svc.CreateLink(ctx, form("label", "Mail", "url", "mailto:a@b.c", "icon", "email"))
	require.True(t, a.Success, a.Message)
	require.True(t, b.Success, b.Message)

	res = f.svc.ReorderLinks(ctx, []int64{b.Data.(content.ExternalLink).ID, a.Data.(content.ExternalLink).ID})
	require.True(t, res.Success, res.Message)
	links, err := f.store.ListLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mail", links[0].Label)

	res = f.svc.ReorderLinks(ctx, []int64{999})
	assert.Equal(t, "Link not found.", res.Message)
}

func TestSettingsValidation(t *testing.T) {
	f := newFixture(t)
	res := f.svc.SaveSettings(context.Background(), form("contactEmail", "not an email"))
	assert.False(t, res.Success)
	assert.Equal(t, "Contact email is invalid.", res.Message)
}

func TestImportNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	res := f.svc.ImportBackup(context.Background(), form("confirm", "yes"), pngFile(t, "b.zip"))
	assert.False(t, res.Success)
	assert.Equal(t, "Type RESTORE to confirm the restore.", res.Message)
}

func TestExportImportThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.painting(t, "dune")

	arc, res := f.svc.ExportBackup(ctx)
	require.True(t, res.Success, res.Message)

	dst := newFixture(t)
	file := &File{Name: arc.Filename, Size: int64(len(arc.Data)), Content: bytes.NewReader(arc.Data)}
	res = dst.svc.ImportBackup(ctx, form("confirm", "RESTORE"), file)
	require.True(t, res.Success, res.Message)

	paintings, err := dst.store.ListPaintings(ctx)
	require.NoError(t, err)
	require.Len(t, paintings, 1)
	path, ok := dst.assets.PathFor(paintings[0].ImageURL)
	require.True(t, ok)
	assert.FileExists(t, path)

	res = dst.svc.ImportBackup(ctx, form("confirm", "RESTORE"), &File{Name: "x.zip", Size: 3, Content: bytes.NewReader([]byte("abc"))})
	assert.False(t, res.Success)
	assert.Equal(t, "The file is not a readable zip archive.", res.Message)
}

type stubAI struct {
	got ai.Subject
	err error
}

func (s *stubAI) GenerateSeo(_ context.Context, subj ai.Subject) (ai.Suggestion, error) {
	s.got = subj
	return ai.Suggestion{Title: "T", Description: "D"}, s.err
}

func TestGenerateSeo(t *testing.T) {
	f := newFixture(t)
	p := f.painting(t, "dune")

	res := f.svc.GenerateSeo(context.Background(), form("kind", "painting", "id", "1"))
	assert.Equal(t, "AI generation is not configured.", res.Message)

	stub := &stubAI{}
	f.svc.ai = stub
	res = f.svc.GenerateSeo(context.Background(), form("kind", "painting", "id", "1"))
	require.True(t, res.Success, res.Message)
	assert.Equal(t, p.Title, stub.got.Title)
	assert.Equal(t, "Atelier", stub.got.SiteName)

	stub.err = ai.ErrNotConfigured
	res = f.svc.GenerateSeo(context.Background(), form("kind", "painting", "id", "1"))
	assert.Equal(t, "AI generation is not configured.", res.Message)

	res = f.svc.GenerateSeo(context.Background(), form("kind", "painting", "id", "77"))
	assert.Equal(t, "Painting not found.", res.Message)
}
