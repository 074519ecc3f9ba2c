package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/movies-ms-go/internal/cache"
	"github.com/fhuszti/movies-ms-go/internal/mock"
	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/usecase/movie"
)

func TestRenderListMovies_Cases(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		c := &mock.Cache{MoviesOut: []byte(`[{"ok":true}]`), EtagMovies: "\"1234\""}
		r := NewHTTPRenderer(c, time.Minute)
		lister := &mock.MovieLister{}

		out, etag, err := r.RenderListMovies(ctx, lister)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != string(c.MoviesOut) {
			t.Errorf("raw mismatch: got %s want %s", out, c.MoviesOut)
		}
		if etag != c.EtagMovies {
			t.Errorf("etag mismatch: got %s want %s", etag, c.EtagMovies)
		}
		if lister.Called {
			t.Error("lister should not be called on cache hit")
		}
		if c.SetMoviesCalled || c.SetEtagMoviesCalled {
			t.Error("cache should not be set on hit")
		}
		if c.GotKey != movie.ListCacheKey {
			t.Errorf("key = %q; want %q", c.GotKey, movie.ListCacheKey)
		}
	})

	t.Run("cache miss", func(t *testing.T) {
		c := &mock.Cache{}
		movies := []*model.Movie{{ID: "1", PrimaryTitle: "A", NormalizedTitle: "a"}}
		lister := &mock.MovieLister{Out: movies}
		r := NewHTTPRenderer(c, time.Minute)

		out, etag, err := r.RenderListMovies(ctx, lister)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected, _ := json.Marshal(movies)
		if string(out) != string(expected) {
			t.Errorf("raw mismatch: got %s want %s", out, expected)
		}
		expEtag := fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(expected))
		if etag != expEtag {
			t.Errorf("etag mismatch: got %s want %s", etag, expEtag)
		}
		if !lister.Called {
			t.Error("lister should be called on cache miss")
		}
		if !c.SetMoviesCalled || !c.SetEtagMoviesCalled {
			t.Error("cache should be written on miss")
		}
		if c.GotTTL != time.Minute {
			t.Errorf("ttl = %v; want %v", c.GotTTL, time.Minute)
		}
	})

	t.Run("empty collection is not found and not cached", func(t *testing.T) {
		c := &mock.Cache{}
		r := NewHTTPRenderer(c, time.Minute)

		_, _, err := r.RenderListMovies(ctx, &mock.MovieLister{Out: []*model.Movie{}})
		if !errors.Is(err, movie.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if c.SetMoviesCalled {
			t.Error("an empty result must not be cached")
		}
	})

	t.Run("lister error", func(t *testing.T) {
		c := &mock.Cache{}
		r := NewHTTPRenderer(c, time.Minute)

		_, _, err := r.RenderListMovies(ctx, &mock.MovieLister{Err: errors.New("fail")})
		if err == nil || err.Error() != "fail" {
			t.Fatalf("expected fail, got %v", err)
		}
		if c.SetMoviesCalled || c.SetEtagMoviesCalled {
			t.Error("cache should not be set on error")
		}
	})

	t.Run("cache error falls back to the store", func(t *testing.T) {
		c := &mock.Cache{GetMoviesErr: errors.New("redis down")}
		lister := &mock.MovieLister{Out: []*model.Movie{{ID: "1", PrimaryTitle: "A"}}}

		if _, _, err := NewHTTPRenderer(c, time.Minute).RenderListMovies(ctx, lister); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !lister.Called {
			t.Error("lister should be called when the cache fails")
		}
	})
}

func TestRenderFindMovies_Cases(t *testing.T) {
	ctx := context.Background()

	t.Run("keyed by normalized title", func(t *testing.T) {
		c := &mock.Cache{}
		finder := &mock.MovieFinder{Out: []*model.Movie{{ID: "1", PrimaryTitle: "Pelicula 1"}}}

		if _, _, err := NewHTTPRenderer(c, time.Minute).RenderFindMovies(ctx, finder, "Pelicula 1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.GotKey != movie.TitleCacheKey("pelicula1") {
			t.Errorf("key = %q; want %q", c.GotKey, movie.TitleCacheKey("pelicula1"))
		}
		if finder.GotTitle != "Pelicula 1" {
			t.Errorf("finder got %q", finder.GotTitle)
		}
	})

	t.Run("no match", func(t *testing.T) {
		c := &mock.Cache{}
		_, _, err := NewHTTPRenderer(c, time.Minute).RenderFindMovies(ctx, &mock.MovieFinder{}, "nope")
		if !errors.Is(err, movie.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if c.SetMoviesCalled {
			t.Error("a miss must not be cached")
		}
	})

	t.Run("blank title", func(t *testing.T) {
		c := &mock.Cache{}
		finder := &mock.MovieFinder{}
		_, _, err := NewHTTPRenderer(c, time.Minute).RenderFindMovies(ctx, finder, "  ")
		if !errors.Is(err, movie.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if c.GetMoviesCalled || finder.Called {
			t.Error("nothing should be looked up for a blank title")
		}
	})
}

func TestRenderFindMovies_TitleAllDoesNotHitListEntry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.NewCache(mr.Addr(), "")
	t.Cleanup(func() { _ = c.Close() })
	r := NewHTTPRenderer(c, time.Minute)

	lister := &mock.MovieLister{Out: []*model.Movie{
		{ID: "1", PrimaryTitle: "Pelicula 1"},
		{ID: "2", PrimaryTitle: "All"},
	}}
	list, _, err := r.RenderListMovies(ctx, lister)
	if err != nil {
		t.Fatalf("RenderListMovies: %v", err)
	}

	finder := &mock.MovieFinder{Out: []*model.Movie{{ID: "2", PrimaryTitle: "All"}}}
	found, _, err := r.RenderFindMovies(ctx, finder, "ALL")
	if err != nil {
		t.Fatalf("RenderFindMovies: %v", err)
	}
	if !finder.Called {
		t.Fatal("title lookup was answered from the list entry")
	}
	if string(found) == string(list) {
		t.Errorf("title lookup returned the whole list: %s", found)
	}
	var got []map[string]any
	if err := json.Unmarshal(found, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0]["primaryTitle"] != "All" {
		t.Errorf("got %v; want only the movie titled All", got)
	}
}
