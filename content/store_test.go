package content

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "gallery.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func price(v float64) *float64 { return &v }

func TestOpen(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	for _, table := range append(Tables, "users") {
		n, err := s.Count(context.Background(), table)
		if err != nil {
			t.Fatalf("Count(%s) failed: %v", table, err)
		}
		if n != 0 {
			t.Errorf("Count(%s) = %d, want 0", table, n)
		}
	}
}

func TestCreateAndGetPainting(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := Painting{
		Slug:        "blue-harbour",
		Title:       "Blue Harbour",
		Description: "Oil on canvas",
		Price:       price(1200),
		Width:       80,
		Height:      60,
		ImageURL:    "/uploads/paintings/blue-harbour.jpg",
	}
	if err := s.CreatePainting(ctx, &p); err != nil {
		t.Fatalf("CreatePainting failed: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("ID should be set after create")
	}

	got, err := s.GetPaintingByRef(ctx, "blue-harbour")
	if err != nil {
		t.Fatalf("GetPaintingByRef failed: %v", err)
	}
	if got.Title != p.Title {
		t.Errorf("Title = %q, want %q", got.Title, p.Title)
	}
	if got.Price == nil || *got.Price != 1200 {
		t.Errorf("Price = %v, want 1200", got.Price)
	}
	if got.Sold {
		t.Error("Sold should default to false")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byID, err := s.GetPaintingByRef(ctx, "1")
	if err != nil {
		t.Fatalf("GetPaintingByRef by id failed: %v", err)
	}
	if byID.ID != p.ID {
		t.Errorf("ID = %d, want %d", byID.ID, p.ID)
	}
}

func TestCreatePaintingRequiresImage(t *testing.T) {
	s := setupTestStore(t)
	err := s.CreatePainting(context.Background(), &Painting{Title: "No image"})
	if !errors.Is(err, ErrInvalidRow) {
		t.Errorf("expected ErrInvalidRow, got %v", err)
	}
}

func TestPaintingSlugUniqueWhenPresent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.CreatePainting(ctx, &Painting{ImageURL: "/uploads/paintings/a.jpg"}); err != nil {
			t.Fatalf("paintings without slug should not collide: %v", err)
		}
	}
	if err := s.CreatePainting(ctx, &Painting{Slug: "dup", ImageURL: "/x.jpg"}); err != nil {
		t.Fatalf("CreatePainting failed: %v", err)
	}
	err := s.CreatePainting(ctx, &Painting{Slug: "dup", ImageURL: "/y.jpg"})
	if !errors.Is(err, ErrInvalidRow) {
		t.Errorf("duplicate slug should be ErrInvalidRow, got %v", err)
	}
}

func TestUpdateAndDeletePainting(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := Painting{Title: "Before", ImageURL: "/uploads/paintings/a.jpg"}
	if err := s.CreatePainting(ctx, &p); err != nil {
		t.Fatalf("CreatePainting failed: %v", err)
	}
	p.Title = "After"
	p.Sold = true
	if err := s.UpdatePainting(ctx, p); err != nil {
		t.Fatalf("UpdatePainting failed: %v", err)
	}
	got, err := s.GetPainting(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPainting failed: %v", err)
	}
	if got.Title != "After" || !got.Sold {
		t.Errorf("got %+v, want updated title and sold", got)
	}

	if err := s.DeletePainting(ctx, p.ID); err != nil {
		t.Fatalf("DeletePainting failed: %v", err)
	}
	if _, err := s.GetPainting(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.UpdatePainting(ctx, p); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating a deleted painting should be ErrNotFound, got %v", err)
	}
}

func TestSettingsGetOrCreate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	st, err := s.GetOrCreateSettings(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateSettings failed: %v", err)
	}
	again, err := s.GetOrCreateSettings(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateSettings failed: %v", err)
	}
	if st.ID != again.ID {
		t.Errorf("second call created a new row: %d != %d", again.ID, st.ID)
	}

	saved, err := s.SaveSettings(ctx, Settings{NavbarTitle: "Atelier", ContactEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if saved.ID != st.ID {
		t.Errorf("SaveSettings wrote row %d, want %d", saved.ID, st.ID)
	}
	n, _ := s.Count(ctx, "settings")
	if n != 1 {
		t.Errorf("settings rows = %d, want 1", n)
	}
}

func TestSaveBiography(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveBiography(ctx, "# Hello", "/uploads/me.jpg"); err != nil {
		t.Fatalf("SaveBiography failed: %v", err)
	}
	if _, err := s.SaveBiography(ctx, "# Hello again", ""); err != nil {
		t.Fatalf("SaveBiography failed: %v", err)
	}
	b, err := s.GetOrCreateBiography(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateBiography failed: %v", err)
	}
	if b.Content != "# Hello again" {
		t.Errorf("Content = %q", b.Content)
	}
	n, _ := s.Count(ctx, "biography")
	if n != 1 {
		t.Errorf("biography rows = %d, want 1", n)
	}
}

func TestLinksOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, label := range []string{"Instagram", "Shop", "Mail"} {
		l := ExternalLink{Label: label, URL: "https://example.com/" + label, Icon: "website"}
		if err := s.CreateLink(ctx, &l); err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
		ids = append(ids, l.ID)
	}

	if err := s.ReorderLinks(ctx, []int64{ids[2], ids[0]}); err != nil {
		t.Fatalf("ReorderLinks failed: %v", err)
	}
	links, err := s.ListLinks(ctx)
	if err != nil {
		t.Fatalf("ListLinks failed: %v", err)
	}
	want := []string{"Mail", "Instagram", "Shop"}
	for i, l := range links {
		if l.Label != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, l.Label, want[i])
		}
	}
}

func TestSaveSeoUpserts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.SaveSeo(ctx, SeoMetadata{PageKey: PageHome, Title: "One"}); err != nil {
		t.Fatalf("SaveSeo failed: %v", err)
	}
	if err := s.SaveSeo(ctx, SeoMetadata{PageKey: PageHome, Title: "Two"}); err != nil {
		t.Fatalf("SaveSeo failed: %v", err)
	}
	m, err := s.GetSeo(ctx, PageHome)
	if err != nil {
		t.Fatalf("GetSeo failed: %v", err)
	}
	if m.Title != "Two" {
		t.Errorf("Title = %q, want Two", m.Title)
	}
	if err := s.SaveSeo(ctx, SeoMetadata{PageKey: "shop"}); !errors.Is(err, ErrInvalidRow) {
		t.Errorf("unknown key should be rejected, got %v", err)
	}
	empty, err := s.GetSeo(ctx, PageContact)
	if err != nil || empty.PageKey != PageContact {
		t.Errorf("GetSeo on missing row = %+v, %v", empty, err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, "admin", "s3cret")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "other", "pw")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin should be a no-op, got %v, %v", created, err)
	}

	if _, err := s.Authenticate(ctx, "admin", "s3cret"); err != nil {
		t.Errorf("Authenticate with good password failed: %v", err)
	}
	if _, err := s.Authenticate(ctx, "admin", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Blue Harbour", "blue-harbour"},
		{"  Été à Collioure ", "ete-a-collioure"},
		{"Nº 5 -- study", "n-5-study"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
