package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quickshow/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

var ErrFavoritesContention = errors.New("favorites changed concurrently, retry")

// FavoritesStore keeps each user's favorite movie ids
type FavoritesStore interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Set(ctx context.Context, userID string, movieIDs []string) error
	// Update applies fn to the current list and stores the result atomically
	Update(ctx context.Context, userID string, fn func([]string) []string) ([]string, error)
}

type redisFavorites struct {
	client *redis.Client
}

func NewRedisFavorites(client *redis.Client) FavoritesStore {
	return &redisFavorites{client: client}
}

func (s *redisFavorites) Get(ctx context.Context, userID string) ([]string, error) {
	return readFavorites(ctx, s.client, userID)
}

func (s *redisFavorites) Set(ctx context.Context, userID string, movieIDs []string) error {
	data, err := json.Marshal(nonNil(movieIDs))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, constants.BuildFavoritesKey(userID), data, 0).Err()
}

func (s *redisFavorites) Update(ctx context.Context, userID string, fn func([]string) []string) ([]string, error) {
	key := constants.BuildFavoritesKey(userID)
	var result []string

	txf := func(tx *redis.Tx) error {
		current, err := readFavorites(ctx, tx, userID)
		if err != nil {
			return err
		}
		result = nonNil(fn(current))
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}
	return nil, ErrFavoritesContention
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readFavorites(ctx context.Context, c stringGetter, userID string) ([]string, error) {
	data, err := c.Get(ctx, constants.BuildFavoritesKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("corrupt favorites for user %s: %w", userID, err)
	}
	return nonNil(ids), nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
