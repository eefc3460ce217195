package movies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quickshow/internal/shared/config"
	"quickshow/internal/shared/constants"
	"quickshow/pkg/cache"

	"golang.org/x/time/rate"
)

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrCatalogUnavailable = errors.New("movie catalog unavailable")
)

// CatalogClient reads titles from the external movie catalog.
type CatalogClient interface {
	PopularMovies(ctx context.Context) ([]CatalogTitle, error)
	Title(ctx context.Context, externalID string) (*CatalogTitle, error)
}

type catalogClient struct {
	baseURL    string
	apiHost    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Service
	ttl        time.Duration
}

// NewCatalogClient builds a client for the RapidAPI IMDb catalog. cacheSvc may
// be nil, in which case every call goes upstream.
func NewCatalogClient(cfg config.CatalogConfig, cacheSvc cache.Service) CatalogClient {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.TTL_CATALOG_MOVIE
	}
	return &catalogClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiHost:    cfg.APIHost,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		// The free plan allows a handful of calls per second
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		cache:   cacheSvc,
		ttl:     ttl,
	}
}

func (c *catalogClient) PopularMovies(ctx context.Context) ([]CatalogTitle, error) {
	var titles []CatalogTitle
	fetch := func() (interface{}, error) {
		var out []CatalogTitle
		if err := c.get(ctx, "/most-popular-movies", &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := c.cached(ctx, constants.CACHE_KEY_CATALOG_NOW_PLAYING, constants.TTL_CATALOG_NOW_PLAYING, fetch, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (c *catalogClient) Title(ctx context.Context, externalID string) (*CatalogTitle, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrMovieNotFound
	}

	var title CatalogTitle
	fetch := func() (interface{}, error) {
		var out CatalogTitle
		if err := c.get(ctx, "/"+url.PathEscape(externalID), &out); err != nil {
			return nil, err
		}
		if out.ID == "" {
			return nil, ErrMovieNotFound
		}
		return out, nil
	}

	if err := c.cached(ctx, constants.BuildCatalogMovieKey(externalID), c.ttl, fetch, &title); err != nil {
		return nil, err
	}
	return &title, nil
}

func (c *catalogClient) cached(ctx context.Context, key string, ttl time.Duration, fetch func() (interface{}, error), dest interface{}) error {
	if c.cache == nil {
		v, err := fetch()
		if err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dest)
	}
	return c.cache.GetOrSet(ctx, key, ttl, fetch, dest)
}

func (c *catalogClient) get(ctx context.Context, path string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", c.apiHost)
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrMovieNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrCatalogUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid response: %v", ErrCatalogUnavailable, err)
	}
	return nil
}
