package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"edu-games/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TopicLoader fetches content banks from a backing store (e.g., Postgres).
type TopicLoader interface {
	LoadTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// TopicRepository caches topics in Redis and falls back to a loader on cache miss.
// Topics are stored as JSON: SET topic:{topicID} {json} EX ttl
type TopicRepository struct {
	client *redis.Client
	loader TopicLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewTopicRepository(client *redis.Client, loader TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TopicRepository) GetTopic(ctx context.Context, topicID string) (domain.Topic, error) {
	if topic, ok := r.fromCache(ctx, topicID); ok {
		return topic, nil
	}

	result, err, _ := r.sf.Do(topicID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if topic, ok := r.fromCache(ctx, topicID); ok {
			return topic, nil
		}

		topic, err := r.loader.LoadTopic(ctx, topicID)
		if err != nil {
			return domain.Topic{}, err
		}

		// Cache writes are best effort; the loaded topic is still served.
		if raw, err := json.Marshal(topic); err == nil {
			_ = r.client.Set(ctx, r.key(topicID), raw, r.ttlWithJitter()).Err()
		}
		return topic, nil
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return result.(domain.Topic), nil
}

func (r *TopicRepository) fromCache(ctx context.Context, topicID string) (domain.Topic, bool) {
	raw, err := r.client.Get(ctx, r.key(topicID)).Bytes()
	if err != nil {
		return domain.Topic{}, false
	}
	var topic domain.Topic
	if err := json.Unmarshal(raw, &topic); err != nil || len(topic.Items) == 0 {
		return domain.Topic{}, false
	}
	return topic, true
}

func (r *TopicRepository) key(topicID string) string {
	return "topic:" + topicID
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
