// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package subscribers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes work per key. Acquire blocks until the key's lock is
// held or ctx expires, and returns the release function.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LocalLocker is a process-local keyed mutex, used when Redis is not
// configured. It only serializes within one process — good enough for a
// single-instance deployment.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker creates an empty keyed mutex set.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the mutex for key, creating it on first use. Entries are
// kept for the life of the process; the key space is normalized contact
// addresses, a few thousand at most.
func (l *LocalLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

const (
	redisLockPrefix = "sublock:"
	redisLockTTL    = 10 * time.Second
	redisLockRetry  = 50 * time.Millisecond
)

// RedisLocker serializes across instances with a per-key SET NX lock.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a Redis-backed locker.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire polls SET NX until the lock is taken or ctx expires. The lock
// carries a TTL so a crashed holder cannot wedge the key, and the release
// only deletes the lock if this caller still owns it.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := redisLockPrefix + key
	owner := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, owner, redisLockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis lock %s: %w", key, ctx.Err())
		case <-time.After(redisLockRetry):
		}
	}

	release := func() {
		// Delete only our own lock; if the TTL already expired and someone
		// else holds it, leave theirs alone.
		current, err := l.client.Get(context.Background(), redisKey).Result()
		if err == nil && current == owner {
			l.client.Del(context.Background(), redisKey)
		}
	}
	return release, nil
}
