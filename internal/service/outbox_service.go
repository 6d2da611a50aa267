package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/config"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/share"
)

const EventShortlistShared = "shortlist.shared"

var ErrSharingDisabled = errors.New("sharing is disabled: no outbox configured")

type OutboxServiceInterface interface {
	Dispatch(ctx context.Context, exp *share.ShareExport, meta DispatchMeta) (string, error)
}

type DispatchMeta struct {
	UserID    string
	SessionID string
	TenantID  string
}

// OutboxMessage is what the mail worker pops from the outbox list.
type OutboxMessage struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	SessionID string             `json:"session_id,omitempty"`
	TenantID  string             `json:"tenant_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Export    *share.ShareExport `json:"export"`
	Body      string             `json:"body"`
}

type outboxEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Count     int    `json:"candidate_count"`
}

// OutboxService hands share exports to the mail worker through redis.
type OutboxService struct {
	rdb     *redis.Client
	key     string
	channel string
	logger  *zap.Logger
	now     func() time.Time
}

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewOutboxService(rdb *redis.Client, cfg *config.RedisConfig, log *zap.Logger) *OutboxService {
	return &OutboxService{
		rdb:     rdb,
		key:     cfg.Key,
		channel: cfg.Channel,
		logger:  logger.OrNop(log).Named("outbox"),
		now:     time.Now,
	}
}

// Dispatch queues the export and announces it. It returns the message id.
func (s *OutboxService) Dispatch(ctx context.Context, exp *share.ShareExport, meta DispatchMeta) (string, error) {
	if s == nil || s.rdb == nil {
		return "", ErrSharingDisabled
	}

	msg := s.newMessage(exp, meta)
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal outbox message: %w", err)
	}
	event, err := json.Marshal(outboxEvent{
		Type:      EventShortlistShared,
		MessageID: msg.ID,
		UserID:    msg.UserID,
		Count:     len(exp.Candidates),
	})
	if err != nil {
		return "", fmt.Errorf("marshal outbox event: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, payload)
		pipe.Publish(ctx, s.channel, event)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("outbox dispatch: %w", err)
	}

	s.logger.Info("shortlist queued for delivery",
		zap.String("message_id", msg.ID),
		zap.String("user_id", meta.UserID),
		zap.Int("candidates", len(exp.Candidates)),
	)
	return msg.ID, nil
}

func (s *OutboxService) newMessage(exp *share.ShareExport, meta DispatchMeta) OutboxMessage {
	return OutboxMessage{
		ID:        uuid.NewString(),
		UserID:    meta.UserID,
		SessionID: meta.SessionID,
		TenantID:  meta.TenantID,
		CreatedAt: s.now().UTC(),
		Export:    exp,
		Body:      exp.Body(),
	}
}
