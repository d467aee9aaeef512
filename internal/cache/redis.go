// Package cache реализует кеш чтения резюме поверх redis.
//
// Каждый ключ версионирован: запись значения разрешена только для версии,
// прочитанной до обращения к базе, и только пока ключ не заблокирован
// изменением. Изменение сначала поднимает версию и ставит блокировку,
// затем пишет в базу, затем снимает блокировку. Поэтому чтение, начавшееся
// до изменения, не может положить в кеш устаревшую строку.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/resume-service/internal/config"
)

// NoVersion возвращается Lookup, когда ключ заблокирован изменением
// и значение класть в кеш нельзя.
const NoVersion int64 = -1

const defaultLockTTL = time.Minute

// KEYS: версия, блокировка. ARGV: префикс ключа значения.
var lookupScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return {-1}
end
local version = tonumber(redis.call('GET', KEYS[1]) or '0')
local value = redis.call('GET', ARGV[1] .. version)
if not value then
	return {version}
end
return {version, value}
`)

// KEYS: версия, блокировка, ключ значения. ARGV: ожидаемая версия, значение, ttl в мс.
var storeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
local version = tonumber(redis.call('GET', KEYS[1]) or '0')
if version ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[3], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Cache хранит значения в redis в виде JSON.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

func versionKey(key string) string { return key + ":version" }
func lockKey(key string) string    { return key + ":lock" }
func valuePrefix(key string) string {
	return key + ":v:"
}

// Lookup читает значение текущей версии ключа в result.
//
// Возвращает found = true при попадании и версию, с которой затем нужно
// вызывать Store. Для заблокированного ключа возвращает NoVersion.
func (c *Cache) Lookup(ctx context.Context, key string, result any) (bool, int64, error) {
	const op = "cache.Lookup"
	reply, err := lookupScript.Run(ctx, c.Db, []string{versionKey(key), lockKey(key)}, valuePrefix(key)).Slice()
	if err != nil {
		return false, NoVersion, fmt.Errorf("%s: %w", op, err)
	}
	if len(reply) == 0 {
		return false, NoVersion, fmt.Errorf("%s: empty reply", op)
	}
	version, ok := reply[0].(int64)
	if !ok {
		return false, NoVersion, fmt.Errorf("%s: unexpected version %v", op, reply[0])
	}
	if version == NoVersion || len(reply) < 2 {
		return false, version, nil
	}
	raw, ok := reply[1].(string)
	if !ok {
		return false, NoVersion, fmt.Errorf("%s: unexpected value %T", op, reply[1])
	}
	if err = json.Unmarshal([]byte(raw), result); err != nil {
		return false, NoVersion, fmt.Errorf("%s: %w", op, err)
	}
	return true, version, nil
}

// Store кладёт значение под версией, полученной из Lookup. Если версия
// успела смениться или ключ заблокирован, ничего не пишет и возвращает false.
func (c *Cache) Store(ctx context.Context, key string, version int64, value any, expiration time.Duration) (bool, error) {
	const op = "cache.Store"
	if version == NoVersion || expiration <= 0 {
		return false, nil
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	keys := []string{versionKey(key), lockKey(key), valuePrefix(key) + strconv.FormatInt(version, 10)}
	stored, err := storeScript.Run(ctx, c.Db, keys, version, string(jsonData), expiration.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return stored == 1, nil
}

// BeginWrite поднимает версию ключа и блокирует запись в кеш до EndWrite
// (или до истечения lockTTL). Вызывается до изменения в базе; ошибка
// означает, что изменять данные нельзя.
func (c *Cache) BeginWrite(ctx context.Context, key string, lockTTL time.Duration) error {
	const op = "cache.BeginWrite"
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	_, err := c.Db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(key))
		pipe.Set(ctx, lockKey(key), 1, lockTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EndWrite снимает блокировку, поставленную BeginWrite.
func (c *Cache) EndWrite(ctx context.Context, key string) error {
	const op = "cache.EndWrite"
	if err := c.Db.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Noop используется, когда redis не настроен: ничего не хранит и всегда промахивается.
type Noop struct{}

// Lookup всегда сообщает о промахе.
func (Noop) Lookup(context.Context, string, any) (bool, int64, error) { return false, 0, nil }

// Store ничего не сохраняет.
func (Noop) Store(context.Context, string, int64, any, time.Duration) (bool, error) {
	return false, nil
}

// BeginWrite ничего не блокирует.
func (Noop) BeginWrite(context.Context, string, time.Duration) error { return nil }

// EndWrite ничего не делает.
func (Noop) EndWrite(context.Context, string) error { return nil }
