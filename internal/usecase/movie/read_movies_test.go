package movie

import (
	"context"
	"errors"
	"testing"
)

func TestListMovies(t *testing.T) {
	repo := newMemRepo()
	svc := NewMovieLister(repo, Options{})

	movies, err := svc.ListMovies(context.Background())
	if err != nil || len(movies) != 0 {
		t.Fatalf("empty collection: got %v, %v", movies, err)
	}

	seedMovie(repo, "A", 1, "", "")
	seedMovie(repo, "B", 2, "", "")
	movies, err = svc.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 || movies[0].PrimaryTitle != "A" || movies[1].PrimaryTitle != "B" {
		t.Errorf("unexpected listing: %+v", movies)
	}
}

func TestListMovies_StoreUnavailable(t *testing.T) {
	repo := newMemRepo()
	repo.getAllErr = context.DeadlineExceeded
	if _, err := NewMovieLister(repo, Options{}).ListMovies(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestFindMovies(t *testing.T) {
	repo := newMemRepo()
	seedMovie(repo, "Pelicula 1", 2022, "", "")
	seedMovie(repo, "Pelicula 2", 2023, "", "")
	svc := NewMovieFinder(repo, Options{})

	movies, err := svc.FindMovies(context.Background(), "  PELICULA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 1 || movies[0].PrimaryTitle != "Pelicula 1" {
		t.Errorf("unexpected matches: %+v", movies)
	}

	movies, err = svc.FindMovies(context.Background(), "nope")
	if err != nil || len(movies) != 0 {
		t.Errorf("no match should be empty, got %v, %v", movies, err)
	}

	if _, err := svc.FindMovies(context.Background(), " "); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestFindMovies_ReturnsAllMatches(t *testing.T) {
	repo := newMemRepo()
	seedMovie(repo, "A", 1, "", "")
	seedMovie(repo, "a", 2, "", "")

	movies, err := NewMovieFinder(repo, Options{}).FindMovies(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected both matches, got %d", len(movies))
	}
}
