package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Client тонкая обертка над go-redis: JSON значения и множества-индексы ключей
type Client struct {
	rdb *redis.Client
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Get возвращает сырое значение; found=false, если ключа нет
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrGet, key, err)
	}
	return data, true, nil
}

// SetJSON сериализует value и кладет с TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMarshal, key, err)
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSet, key, err)
	}
	return nil
}

// Delete удаляет ключи
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}

// AddToIndex добавляет ключ в множество-индекс и продлевает TTL индекса
func (c *Client) AddToIndex(ctx context.Context, index string, ttl time.Duration, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = k
	}

	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, index, members...)
	pipe.Expire(ctx, index, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIndex, index, err)
	}
	return nil
}

// IndexMembers ключи, записанные в индекс
func (c *Client) IndexMembers(ctx context.Context, index string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, index).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIndex, index, err)
	}
	return members, nil
}

// Generations текущие значения счетчиков поколений; отсутствующий счетчик равен "0"
func (c *Client) Generations(ctx context.Context, keys []string) ([]string, error) {
	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrGet, keys, err)
	}

	out := make([]string, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			s = "0"
		}
		out[i] = s
	}
	return out, nil
}

var setIfGenerations = redis.NewScript(`
for i = 2, #KEYS do
	local current = redis.call("GET", KEYS[i])
	if not current then
		current = "0"
	end
	if current ~= ARGV[i + 1] then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// SetJSONIfGenerations кладет значение, только если счетчики поколений равны expected.
// Возвращает false, если за время загрузки значение было инвалидировано.
func (c *Client) SetJSONIfGenerations(
	ctx context.Context,
	key string,
	value interface{},
	ttl time.Duration,
	generations []string,
	expected []string,
) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMarshal, key, err)
	}

	keys := append([]string{key}, generations...)
	args := make([]interface{}, 0, len(expected)+2)
	args = append(args, data, ttl.Milliseconds())
	for _, e := range expected {
		args = append(args, e)
	}

	n, err := setIfGenerations.Run(ctx, c.rdb, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrSet, key, err)
	}
	return n == 1, nil
}

// BumpGenerations увеличивает счетчики поколений
func (c *Client) BumpGenerations(ctx context.Context, keys []string, ttl time.Duration) error {
	if len(keys) == 0 {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	for _, k := range keys {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v: %v", ErrSet, keys, err)
	}
	return nil
}

// SetNX кладет значение, только если ключа нет
func (c *Client) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrSet, key, err)
	}
	return ok, nil
}

var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CompareAndDelete удаляет ключ, только если его значение равно expected.
// Возвращает true, если ключ был удален.
func (c *Client) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	n, err := compareAndDelete.Run(ctx, c.rdb, []string{key}, expected).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDelete, key, err)
	}
	return n == 1, nil
}

var compareAndExpire = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// CompareAndExpire продлевает TTL ключа, только если его значение равно expected
func (c *Client) CompareAndExpire(ctx context.Context, key, expected string, ttl time.Duration) (bool, error) {
	n, err := compareAndExpire.Run(ctx, c.rdb, []string{key}, expected, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrSet, key, err)
	}
	return n == 1, nil
}
