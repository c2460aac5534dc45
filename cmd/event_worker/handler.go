package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeDrop
)

type ownerPurger interface {
	RemoveOwner(ctx context.Context, owner string) error
}

type handler struct {
	index   ownerPurger
	logger  *logrus.Logger
	timeout time.Duration
}

// handle decides what to do with one account event body.
func (h *handler) handle(ctx context.Context, body []byte) outcome {
	var ev application.AccountEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Type == "" {
		helpers.LogError(h.logger, "bad event message", err, logrus.Fields{"body": string(body)})
		return outcomeDrop
	}

	fields := logrus.Fields{"type": ev.Type, "identity_id": ev.IdentityID}
	switch ev.Type {
	case application.EventIdentityDeleted:
		if ev.IdentityID == "" {
			helpers.LogError(h.logger, "deleted event without identity", nil, fields)
			return outcomeDrop
		}
		c, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		if err := h.index.RemoveOwner(c, ev.IdentityID); err != nil {
			helpers.LogError(h.logger, "purge search index failed", err, fields)
			return outcomeRetry
		}
		helpers.LogInfo(h.logger, "purged search index", fields)
	default:
		helpers.LogInfo(h.logger, "account event", fields)
	}
	return outcomeAck
}
