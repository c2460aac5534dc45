// Package activity keeps informational account activity in Redis.
// Nothing here is consulted when validating tokens.
package activity

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

type RedisTracker struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ application.ActivityTracker = (*RedisTracker)(nil)

// NewRedisTracker returns a tracker whose entries expire after ttl. Zero keeps them.
func NewRedisTracker(rdb redis.Cmdable, ttl time.Duration) *RedisTracker {
	return &RedisTracker{rdb: rdb, ttl: ttl}
}

func loginKey(id string) string    { return "identity:activity:" + id + ":login" }
func passwordKey(id string) string { return "identity:activity:" + id + ":password" }

func (t *RedisTracker) RecordLogin(ctx context.Context, identityID string, at time.Time) error {
	return helpers.RedisSetJSON(ctx, t.rdb, loginKey(identityID), at.UTC(), t.ttl)
}

func (t *RedisTracker) RecordPasswordChange(ctx context.Context, identityID string, at time.Time) error {
	return helpers.RedisSetJSON(ctx, t.rdb, passwordKey(identityID), at.UTC(), t.ttl)
}

func (t *RedisTracker) Load(ctx context.Context, identityID string) (application.Activity, error) {
	var act application.Activity

	var login time.Time
	ok, err := helpers.RedisGetJSON(ctx, t.rdb, loginKey(identityID), &login)
	if err != nil {
		return act, err
	}
	if ok {
		act.LastLoginAt = &login
	}

	var changed time.Time
	ok, err = helpers.RedisGetJSON(ctx, t.rdb, passwordKey(identityID), &changed)
	if err != nil {
		return act, err
	}
	if ok {
		act.PasswordChangedAt = &changed
	}
	return act, nil
}

func (t *RedisTracker) Forget(ctx context.Context, identityID string) error {
	return helpers.RedisDel(ctx, t.rdb, loginKey(identityID), passwordKey(identityID))
}
