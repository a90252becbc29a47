package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker/v2"

	"runaway-service/internal/models"
)

const (
	// DefaultResultKey ключ, под которым хранится результат оценки
	DefaultResultKey = "runaway:result"
)

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore хранит результат в Redis как единый JSON-документ.
// SET заменяет значение целиком, поэтому читатели видят либо старую, либо новую версию.
type RedisStore struct {
	client  *redis.Client
	key     string
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRedisStore создает новое подключение к Redis
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, opts.Key), nil
}

// NewRedisStoreWithClient оборачивает существующий клиент
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultResultKey
	}
	return &RedisStore{
		client:  client,
		key:     key,
		breaker: newBreaker("redis-store:" + key),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// Отсутствие ключа - нормальный ответ Redis, а не сбой соединения
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
}

// Save сохраняет результат без TTL
func (r *RedisStore) Save(ctx context.Context, result models.PersistedResult) error {
	data, err := Encode(result)
	if err != nil {
		return err
	}
	_, err = r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, r.key, data, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// Load читает результат из Redis
func (r *RedisStore) Load(ctx context.Context) (models.PersistedResult, error) {
	data, err := r.breaker.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, r.key).Bytes()
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: key %s", ErrNotFound, r.key)
		}
		return data, err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.PersistedResult{}, err
		}
		return models.PersistedResult{}, fmt.Errorf("failed to load result: %w", err)
	}
	return Decode(data)
}

// Ping проверяет соединение с Redis
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединение
func (r *RedisStore) Close() error {
	return r.client.Close()
}
