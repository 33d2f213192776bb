// internal/application/allocate-application-id/allocator.go
package allocateapplicationid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	ErrStorageUnavailable = errors.New("STORAGE_UNAVAILABLE")
	ErrInvalidCounter     = errors.New("INVALID_COUNTER")
)

// Allocator hands out strictly increasing values for a named counter.
// Concurrent callers never observe the same value. A counter that does not
// exist yet starts at zero, so its first value is 1.
type Allocator interface {
	AllocateNext(ctx context.Context, counterName string) (int64, error)
	Reset(ctx context.Context, counterName string) error
}

// RedisAllocator keeps each counter in a single redis key and advances it with INCR.
type RedisAllocator struct {
	rdb       redis.Cmdable
	keyPrefix string
}

func NewRedisAllocator(rdb redis.Cmdable, keyPrefix string) *RedisAllocator {
	return &RedisAllocator{rdb: rdb, keyPrefix: keyPrefix}
}

func (a *RedisAllocator) key(counterName string) string {
	return a.keyPrefix + counterName
}

func (a *RedisAllocator) AllocateNext(ctx context.Context, counterName string) (int64, error) {
	if counterName == "" {
		return 0, fmt.Errorf("%w: counter name is empty", ErrInvalidCounter)
	}
	value, err := a.rdb.Incr(ctx, a.key(counterName)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: incr %s: %v", ErrStorageUnavailable, a.key(counterName), err)
	}
	return value, nil
}

func (a *RedisAllocator) Reset(ctx context.Context, counterName string) error {
	if err := a.rdb.Del(ctx, a.key(counterName)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrStorageUnavailable, a.key(counterName), err)
	}
	return nil
}

// PostgresAllocator keeps counters as rows of sequence_counters. The upsert
// takes the row lock, so concurrent increments serialize inside postgres.
type PostgresAllocator struct {
	db *sql.DB
}

func NewPostgresAllocator(db *sql.DB) *PostgresAllocator {
	return &PostgresAllocator{db: db}
}

const allocateQuery = `
	INSERT INTO sequence_counters (name, value, updated_at)
	VALUES ($1, 1, now())
	ON CONFLICT (name) DO UPDATE
		SET value = sequence_counters.value + 1, updated_at = now()
	RETURNING value`

func (a *PostgresAllocator) AllocateNext(ctx context.Context, counterName string) (int64, error) {
	if counterName == "" {
		return 0, fmt.Errorf("%w: counter name is empty", ErrInvalidCounter)
	}
	var value int64
	if err := a.db.QueryRowContext(ctx, allocateQuery, counterName).Scan(&value); err != nil {
		return 0, fmt.Errorf("%w: advance counter %s: %v", ErrStorageUnavailable, counterName, err)
	}
	return value, nil
}

func (a *PostgresAllocator) Reset(ctx context.Context, counterName string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM sequence_counters WHERE name = $1`, counterName)
	if err != nil {
		return fmt.Errorf("%w: reset counter %s: %v", ErrStorageUnavailable, counterName, err)
	}
	return nil
}
