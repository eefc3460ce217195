package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Job is a one-shot timer. It fires at most once, no earlier than FireAt.
type Job struct {
	ID      string            `json:"id"`
	Kind    string            `json:"kind"`
	FireAt  time.Time         `json:"fire_at"`
	Payload map[string]string `json:"payload,omitempty"`
}

func (j Job) member() string {
	return j.Kind + ":" + j.ID
}

var ErrInvalidJob = errors.New("job needs an id and a kind")

// Store persists timers so they survive restarts of the process that set them.
type Store interface {
	Schedule(ctx context.Context, job Job) error
	Cancel(ctx context.Context, kind, id string) error
	// Claim removes and returns up to limit jobs due at now. A claimed job is
	// never returned again.
	Claim(ctx context.Context, now time.Time, limit int) ([]Job, error)
	Pending(ctx context.Context) (int64, error)
}

type redisStore struct {
	client     *redis.Client
	dueKey     string
	payloadKey string
}

// NewRedisStore keeps fire times in a sorted set and job bodies in a hash,
// both under prefix.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{
		client:     client,
		dueKey:     prefix + ":due",
		payloadKey: prefix + ":payload",
	}
}

// claimScript pops due members and their payloads in one atomic step so two
// runners never fire the same job.
var claimScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
local out = {}
for _, id in ipairs(ids) do
	redis.call('ZREM', KEYS[1], id)
	local body = redis.call('HGET', KEYS[2], id)
	redis.call('HDEL', KEYS[2], id)
	if body then
		table.insert(out, body)
	end
end
return out
`)

func (s *redisStore) Schedule(ctx context.Context, job Job) error {
	if job.ID == "" || job.Kind == "" {
		return ErrInvalidJob
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.payloadKey, job.member(), body)
		pipe.ZAdd(ctx, s.dueKey, redis.Z{Score: float64(job.FireAt.UnixMilli()), Member: job.member()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.member(), err)
	}
	return nil
}

func (s *redisStore) Cancel(ctx context.Context, kind, id string) error {
	member := Job{ID: id, Kind: kind}.member()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, s.dueKey, member)
		pipe.HDel(ctx, s.payloadKey, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cancel job %s: %w", member, err)
	}
	return nil
}

func (s *redisStore) Claim(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 1
	}

	raw, err := claimScript.Run(ctx, s.client,
		[]string{s.dueKey, s.payloadKey},
		strconv.FormatInt(now.UnixMilli(), 10), limit,
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim due jobs: %w", err)
	}

	jobs := make([]Job, 0, len(raw))
	for _, body := range raw {
		var job Job
		if err := json.Unmarshal([]byte(body), &job); err != nil {
			// A corrupt entry is dropped; it was already removed by the script
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *redisStore) Pending(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, s.dueKey).Result()
}
