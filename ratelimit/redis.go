// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxTxAttempts = 3

// RedisLimiter keeps the request log in a Redis sorted set per client, so
// several processes can share one limit. Scores are request times in
// milliseconds.
type RedisLimiter struct {
	settings
	client *redis.Client
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a limiter backed by client. The caller owns the client.
func NewRedisLimiter(client *redis.Client, opts ...Option) (*RedisLimiter, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &RedisLimiter{settings: s, client: client}, nil
}

// Allow records the request when it fits in the window. The read and the
// write run under WATCH so concurrent callers cannot both take the last slot.
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	key := l.keyPrefix + clientID

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		var decision Decision
		err := l.client.Watch(ctx, func(tx *redis.Tx) error {
			var err error
			decision, err = l.allowTx(ctx, tx, key)
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return Decision{}, fmt.Errorf("rate limit %s: %w", clientID, err)
		}
		return decision, nil
	}
	return Decision{}, fmt.Errorf("rate limit %s: %w", clientID, redis.TxFailedErr)
}

func (l *RedisLimiter) allowTx(ctx context.Context, tx *redis.Tx, key string) (Decision, error) {
	now := l.now()
	nowMs := now.UnixMilli()
	cutoff := strconv.FormatInt(nowMs-l.window.Milliseconds(), 10)

	inWindow, err := tx.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{Min: "(" + cutoff, Max: "+inf"}).Result()
	if err != nil {
		return Decision{}, err
	}

	var decision Decision
	if len(inWindow) >= l.maxRequests {
		oldest := time.UnixMilli(int64(inWindow[0].Score))
		decision = Decision{RetryAfter: retryAfter(l.window, now, oldest)}
	} else {
		decision = Decision{Allowed: true, Remaining: l.maxRequests - len(inWindow) - 1}
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		if decision.Allowed {
			pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMs), Member: strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()})
		}
		pipe.PExpire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}
	return decision, nil
}

// Close is a no-op; the caller owns the Redis client.
func (l *RedisLimiter) Close() error {
	return nil
}
