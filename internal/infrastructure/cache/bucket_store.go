package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"jobfinder/internal/offline"

	"github.com/redis/go-redis/v9"
)

// BucketStore keeps offline buckets in Redis: a set lists the bucket names and each
// bucket is a hash from request key to JSON-encoded response.
type BucketStore struct {
	r  *Redis
	ns string
}

func NewBucketStore(r *Redis, namespace string) (*BucketStore, error) {
	if r.isUnavailable() {
		return nil, ErrUnavailable
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "offline"
	}
	return &BucketStore{r: r, ns: namespace}, nil
}

func (s *BucketStore) registryKey() string {
	return s.ns + ":buckets"
}

func (s *BucketStore) bucketKey(name string) string {
	return s.ns + ":bucket:" + name
}

func (s *BucketStore) Open(ctx context.Context, name string) (offline.Bucket, error) {
	if err := s.r.client.SAdd(ctx, s.registryKey(), name).Err(); err != nil {
		s.r.warnUnavailableOnce(err)
		return nil, err
	}
	return &redisBucket{client: s.r.client, key: s.bucketKey(name)}, nil
}

func (s *BucketStore) Has(ctx context.Context, name string) (bool, error) {
	return s.r.client.SIsMember(ctx, s.registryKey(), name).Result()
}

func (s *BucketStore) Delete(ctx context.Context, name string) (bool, error) {
	var srem *redis.IntCmd
	_, err := s.r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.bucketKey(name))
		srem = pipe.SRem(ctx, s.registryKey(), name)
		return nil
	})
	if err != nil {
		s.r.warnUnavailableOnce(err)
		return false, err
	}
	return srem.Val() > 0, nil
}

func (s *BucketStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.r.client.SMembers(ctx, s.registryKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type redisBucket struct {
	client *redis.Client
	key    string
}

func (b *redisBucket) Match(ctx context.Context, key string) (*offline.Response, bool, error) {
	raw, err := b.client.HGet(ctx, b.key, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var resp offline.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (b *redisBucket) Put(ctx context.Context, key string, resp *offline.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return b.client.HSet(ctx, b.key, key, raw).Err()
}

func (b *redisBucket) Delete(ctx context.Context, key string) (bool, error) {
	n, err := b.client.HDel(ctx, b.key, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *redisBucket) Keys(ctx context.Context) ([]string, error) {
	keys, err := b.client.HKeys(ctx, b.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

var (
	_ offline.Storage = (*BucketStore)(nil)
	_ offline.Bucket  = (*redisBucket)(nil)
)
