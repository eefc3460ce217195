package constants

import (
	"time"
)

// Redis key layout
// Pattern: quickshow:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "quickshow"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_CATALOG_NOW_PLAYING = CACHE_PREFIX + ":catalog:now_playing"
	CACHE_KEY_CATALOG_MOVIE       = CACHE_PREFIX + ":catalog:movie:" // + external id
)

const (
	TTL_CATALOG_NOW_PLAYING = 1 * time.Hour
	TTL_CATALOG_MOVIE       = 6 * time.Hour
)

// ================== ADMIN MODULE ==================

const (
	CACHE_KEY_ADMIN_DASHBOARD = CACHE_PREFIX + ":admin:dashboard"
)

const (
	TTL_ADMIN_DASHBOARD = 30 * time.Second
)

// ================== USERS MODULE ==================

// Favorites are the system of record for a user's favorite list, no TTL.
const (
	KEY_USER_FAVORITES = CACHE_PREFIX + ":users:favorites:" // + user id
)

// ================== SCHEDULER ==================

const (
	KEY_SCHEDULER_DEFAULT_PREFIX = CACHE_PREFIX + ":jobs"
)

// ================== RATE LIMIT ==================

const (
	KEY_RATE_LIMIT_PREFIX = CACHE_PREFIX + ":rate_limit"
)

// ================== HELPER FUNCTIONS ==================

func BuildCatalogMovieKey(externalID string) string {
	return CACHE_KEY_CATALOG_MOVIE + externalID
}

func BuildFavoritesKey(userID string) string {
	return KEY_USER_FAVORITES + userID
}
