package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// Результаты обращения к кэшу (метка result в метриках)
const (
	resultHit        = "hit"
	resultMiss       = "miss"
	resultError      = "error"
	resultCorrupt    = "corrupt"
	resultStale      = "stale"
	resultInvalidate = "invalidate"
)

// Счетчик поколений живет дольше значений, которые он охраняет
const generationTTLFactor = 4

// Scope чем инвалидируется закэшированное значение
type Scope struct {
	// Indexes множества, в которые записывается ключ (страницы списков и другие ключи, которые нельзя назвать точно)
	Indexes []string
	// Generations счетчики поколений. Значение, загруженное до инвалидации, не попадает в кэш после нее.
	Generations []string
}

// Cache read-through кэш поверх Redis.
// Кэш не источник истины: любые ошибки Redis деградируют до чтения из хранилища.
type Cache struct {
	client  *Client
	ttl     time.Duration
	log     Logger
	metrics Metrics
}

// New создает кэш; client == nil означает выключенный кэш
func New(client *Client, ttl time.Duration, log Logger, metrics Metrics) *Cache {
	return &Cache{client: client, ttl: ttl, log: log, metrics: metrics}
}

// Enabled включен ли кэш
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) observe(family, result string) {
	if c.metrics != nil {
		c.metrics.ObserveCache(family, result)
	}
}

// ReadThrough возвращает значение из кэша или загружает его через load и кладет в кэш.
// Ошибка load возвращается как есть и не кэшируется.
func ReadThrough[T any](
	ctx context.Context,
	c *Cache,
	family string,
	key string,
	scope Scope,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	data, found, err := c.client.Get(ctx, key)
	switch {
	case err != nil:
		c.observe(family, resultError)
		c.log.Warn("cache: get %s failed, reading from store: %v", key, err)
		return load(ctx)
	case found:
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			c.observe(family, resultHit)
			return value, nil
		}
		c.observe(family, resultCorrupt)
		c.log.Warn("cache: corrupt value at %s, reloading: %v", key, err)
	default:
		c.observe(family, resultMiss)
	}

	// поколения читаются до загрузки: инвалидация между загрузкой и записью их изменит
	var generations []string
	if len(scope.Generations) > 0 {
		generations, err = c.client.Generations(ctx, scope.Generations)
		if err != nil {
			c.log.Warn("cache: read generations for %s failed, not caching: %v", key, err)
			return load(ctx)
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if len(scope.Generations) > 0 {
		stored, err := c.client.SetJSONIfGenerations(ctx, key, value, c.ttl, scope.Generations, generations)
		if err != nil {
			c.log.Warn("cache: populate %s failed: %v", key, err)
			return value, nil
		}
		if !stored {
			c.observe(family, resultStale)
			return value, nil
		}
	} else if err := c.client.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.log.Warn("cache: populate %s failed: %v", key, err)
		return value, nil
	}

	for _, idx := range scope.Indexes {
		if err := c.client.AddToIndex(ctx, idx, c.ttl, key); err != nil {
			// без индекса ключ нельзя будет инвалидировать, поэтому убираем его
			c.log.Warn("cache: index %s for %s failed: %v", idx, key, err)
			_ = c.client.Delete(ctx, key)
			break
		}
	}

	return value, nil
}

// Invalidate сдвигает поколения scope, затем удаляет точные ключи и все ключи из индексов вместе с индексами.
// Ошибки логируются и возвращаются только для информации: вызывающий код не должен на них падать.
func (c *Cache) Invalidate(ctx context.Context, family string, keys []string, scope Scope) error {
	if !c.Enabled() {
		return nil
	}

	var firstErr error
	if err := c.client.BumpGenerations(ctx, dedupe(scope.Generations), generationTTLFactor*c.ttl); err != nil {
		c.log.Error("cache: bump generations %v failed: %v", scope.Generations, err)
		firstErr = err
	}

	toDelete := make([]string, 0, len(keys)+len(scope.Indexes))
	toDelete = append(toDelete, keys...)

	for _, idx := range scope.Indexes {
		members, err := c.client.IndexMembers(ctx, idx)
		if err != nil {
			c.log.Error("cache: read index %s failed: %v", idx, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		toDelete = append(toDelete, members...)
		toDelete = append(toDelete, idx)
	}

	if err := c.client.Delete(ctx, dedupe(toDelete)...); err != nil {
		c.log.Error("cache: invalidate %v failed: %v", toDelete, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	c.observe(family, resultInvalidate)
	return firstErr
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
