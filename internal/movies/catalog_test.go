package movies

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quickshow/internal/shared/config"
	"quickshow/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCatalogServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("x-rapidapi-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/most-popular-movies":
			w.Write([]byte(`[{"id":"tt1","primaryTitle":"First","averageRating":7.5,"primaryImage":"p1.jpg","startYear":2024},{"id":"tt2","primaryTitle":"Second","releaseDate":"2025-02-01"}]`))
		case "/tt1":
			w.Write([]byte(`{"id":"tt1","primaryTitle":"First","genres":["Drama"],"cast":[{"fullName":"Ann Actor"}],"runtimeMinutes":120,"spokenLanguages":["en"]}`))
		case "/tt500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCatalogConfig(baseURL string) config.CatalogConfig {
	return config.CatalogConfig{
		BaseURL:  baseURL,
		APIHost:  "catalog.test",
		APIKey:   "secret",
		Timeout:  2 * time.Second,
		CacheTTL: time.Hour,
	}
}

func TestCatalogPopularMovies(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits)
	client := NewCatalogClient(testCatalogConfig(srv.URL), nil)

	titles, err := client.PopularMovies(context.Background())
	if err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("got %d titles, want 2", len(titles))
	}

	np := titles[0].ToNowPlaying()
	if np.Title != "First" || np.ReleaseDate != "2024" || np.Overview != noDescription {
		t.Errorf("unexpected projection: %+v", np)
	}
}

func TestCatalogTitleErrors(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits)
	client := NewCatalogClient(testCatalogConfig(srv.URL), nil)
	ctx := context.Background()

	if _, err := client.Title(ctx, "tt404"); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("missing title err = %v, want ErrMovieNotFound", err)
	}
	if _, err := client.Title(ctx, "tt500"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("server error err = %v, want ErrCatalogUnavailable", err)
	}
	if _, err := client.Title(ctx, "  "); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("blank id err = %v, want ErrMovieNotFound", err)
	}
}

func TestCatalogTitleIsCached(t *testing.T) {
	var hits int32
	srv := newCatalogServer(t, &hits)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := NewCatalogClient(testCatalogConfig(srv.URL), cache.NewService(rdb))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		title, err := client.Title(ctx, "tt1")
		if err != nil {
			t.Fatalf("Title: %v", err)
		}
		if title.RuntimeMinutes != 120 {
			t.Errorf("RuntimeMinutes = %d", title.RuntimeMinutes)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("upstream hits = %d, want 1", got)
	}
}

func TestCatalogTitleToMovie(t *testing.T) {
	title := CatalogTitle{
		ID:            "tt9",
		OriginalTitle: "Original",
		Cast:          []CatalogPerson{{FullName: "A"}, {FullName: ""}, {FullName: "B"}},
	}
	m := title.ToMovie()

	if m.Title != "Original" {
		t.Errorf("Title = %q, want fallback to original title", m.Title)
	}
	if m.OriginalLanguage != "unknown" {
		t.Errorf("OriginalLanguage = %q", m.OriginalLanguage)
	}
	if len(m.Casts) != 2 || m.Genres == nil {
		t.Errorf("Casts = %v, Genres = %v", m.Casts, m.Genres)
	}
}
