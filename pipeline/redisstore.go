package pipeline

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/specforge/specforge/specerrors"
)

// RedisStore backs Store with a Redis hash per job (HSET jobID artifact
// data), demonstrating how a real external store plugs into the pipeline
// without the driver depending on Redis directly (SPEC_FULL.md's "domain
// stack" goal for the persistent artifact store boundary).
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an already-configured *redis.Client. prefix namespaces
// every key this store touches (e.g. "specforge:jobs:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "specforge:jobs:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(jobID string) string {
	return s.prefix + jobID
}

func (s *RedisStore) Put(ctx context.Context, jobID, artifact string, data []byte) error {
	if err := s.client.HSet(ctx, s.key(jobID), artifact, data).Err(); err != nil {
		return &specerrors.StoreError{Artifact: artifact, JobID: jobID, Cause: err}
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, jobID, artifact string) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.key(jobID), artifact).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &specerrors.StoreError{Artifact: artifact, JobID: jobID, Cause: fmt.Errorf("artifact not found")}
		}
		return nil, &specerrors.StoreError{Artifact: artifact, JobID: jobID, Cause: err}
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context, jobID string) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.key(jobID)).Result()
	if err != nil {
		return nil, &specerrors.StoreError{JobID: jobID, Cause: err}
	}
	return keys, nil
}

var _ Store = (*RedisStore)(nil)
