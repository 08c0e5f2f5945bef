package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"edu-games/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TopicLoader fetches content banks from a backing store (embedded YAML, Postgres).
type TopicLoader interface {
	LoadTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// TopicRepository caches content banks with a jittered TTL. Banks without items are
// rejected at load and never cached; callers get their own copy of the item list.
type TopicRepository struct {
	loader TopicLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedTopic
}

type cachedTopic struct {
	topic     domain.Topic
	expiresAt time.Time
}

func NewTopicRepository(loader TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedTopic),
	}
}

func (r *TopicRepository) GetTopic(ctx context.Context, topicID string) (domain.Topic, error) {
	if topic, ok := r.cached(topicID, r.clock()); ok {
		return copyTopic(topic), nil
	}

	result, err, _ := r.sf.Do(topicID, func() (interface{}, error) {
		now := r.clock()
		if topic, ok := r.cached(topicID, now); ok {
			return topic, nil
		}

		topic, err := r.loader.LoadTopic(ctx, topicID)
		if err != nil {
			return domain.Topic{}, err
		}
		if len(topic.Items) == 0 {
			return domain.Topic{}, fmt.Errorf("%w: topic %q has no items", domain.ErrInvalidQuestion, topicID)
		}
		if topic.ID == "" {
			topic.ID = topicID
		}
		topic = copyTopic(topic)

		r.mu.Lock()
		r.cache[topicID] = cachedTopic{
			topic:     topic,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return topic, nil
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return copyTopic(result.(domain.Topic)), nil
}

func copyTopic(t domain.Topic) domain.Topic {
	t.Items = append([]domain.TopicItem(nil), t.Items...)
	return t
}

func (r *TopicRepository) cached(topicID string, now time.Time) (domain.Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[topicID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Topic{}, false
	}
	return entry.topic, true
}

// StaticTopicLoader is a simple loader backed by an in-memory map (embedded content, tests).
type StaticTopicLoader struct {
	topics map[string]domain.Topic
}

func NewStaticTopicLoader(topics map[string]domain.Topic) *StaticTopicLoader {
	return &StaticTopicLoader{topics: topics}
}

func (l *StaticTopicLoader) LoadTopic(_ context.Context, topicID string) (domain.Topic, error) {
	if topic, ok := l.topics[topicID]; ok {
		return topic, nil
	}
	return domain.Topic{}, domain.ErrTopicNotFound
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
