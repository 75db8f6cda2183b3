package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesUntilInvalidated(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"a"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(c, TagPaintings, "all", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, v)
	}
	assert.Equal(t, 1, calls)

	c.InvalidateTag(TagBiography, Expire)
	_, _ = Fetch(c, TagPaintings, "all", load)
	assert.Equal(t, 1, calls, "other tags must not evict")

	c.InvalidateTag(TagPaintings, Expire)
	_, _ = Fetch(c, TagPaintings, "all", load)
	assert.Equal(t, 2, calls)
}

func TestFetchTTL(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	load := func() (int, error) { calls++; return calls, nil }

	v, _ := Fetch(c, TagSeo, "home", load)
	assert.Equal(t, 1, v)
	now = now.Add(2 * time.Minute)
	v, _ = Fetch(c, TagSeo, "home", load)
	assert.Equal(t, 2, v)
}

func TestStaleServesLastValueOnError(t *testing.T) {
	c := New(time.Minute)
	_, err := Fetch(c, TagSettings, "site", func() (string, error) { return "v1", nil })
	require.NoError(t, err)

	c.InvalidateTag(TagSettings, Stale)
	v, err := Fetch(c, TagSettings, "site", func() (string, error) { return "", errors.New("db down") })
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = Fetch(c, TagSettings, "site", func() (string, error) { return "v2", nil })
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestExpireSurfacesError(t *testing.T) {
	c := New(time.Minute)
	_, _ = Fetch(c, TagSettings, "site", func() (string, error) { return "v1", nil })

	c.InvalidateTag(TagSettings, Expire)
	_, err := Fetch(c, TagSettings, "site", func() (string, error) { return "", errors.New("db down") })
	assert.Error(t, err)
}

func TestPages(t *testing.T) {
	c := New(time.Minute)
	gen := c.PageGeneration()
	require.True(t, c.StorePage("/", "text/html", []byte("home"), gen))
	require.True(t, c.StorePage("/biography/", "text/html", []byte("bio"), gen))
	require.True(t, c.StorePage("/paintings/dune/", "text/html", []byte("dune"), gen))

	_, body, ok := c.Page("/biography/")
	require.True(t, ok)
	assert.Equal(t, "bio", string(body))

	c.InvalidatePath("/biography/", Page)
	_, _, ok = c.Page("/biography/")
	assert.False(t, ok)
	_, _, ok = c.Page("/")
	assert.True(t, ok, "page invalidation is exact")

	c.InvalidatePath("/", Layout)
	_, _, ok = c.Page("/paintings/dune/")
	assert.False(t, ok)
	_, _, ok = c.Page("/")
	assert.False(t, ok)
}

func TestFetchDropsValueLoadedAcrossInvalidation(t *testing.T) {
	c := New(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string)

	go func() {
		v, _ := Fetch(c, TagPaintings, "all", func() (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()

	<-started
	c.InvalidateTag(TagPaintings, Expire)
	close(release)
	assert.Equal(t, "old", <-done, "the in-flight caller still gets its value")

	v, err := Fetch(c, TagPaintings, "all", func() (string, error) { return "new", nil })
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestFetchKeepsValueWhenOtherTagInvalidated(t *testing.T) {
	c := New(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, _ = Fetch(c, TagPaintings, "all", func() (string, error) {
			close(started)
			<-release
			return "v1", nil
		})
		close(done)
	}()

	<-started
	c.InvalidateTag(TagLinks, Expire)
	close(release)
	<-done

	v, err := Fetch(c, TagPaintings, "all", func() (string, error) { return "v2", nil })
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestStorePageAfterInvalidation(t *testing.T) {
	c := New(time.Minute)
	gen := c.PageGeneration()
	c.InvalidatePath("/reviews/", Page)

	assert.False(t, c.StorePage("/reviews/", "text/html", []byte("stale"), gen))
	_, _, ok := c.Page("/reviews/")
	assert.False(t, ok)

	assert.True(t, c.StorePage("/reviews/", "text/html", []byte("fresh"), c.PageGeneration()))
	_, body, ok := c.Page("/reviews/")
	require.True(t, ok)
	assert.Equal(t, "fresh", string(body))
}
