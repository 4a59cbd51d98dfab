package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notification is an out-of-band message to a user (SMS/push in
// production; the delivery channel is out of scope here). Every sent
// notification is also recorded so the user can read their feed back.
type Notification struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier delivery is fire-and-forget: callers never fail a request on a
// Notify error.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	List(ctx context.Context, userID uint) ([]Notification, error)
}

// LogNotifier is the development fallback when no Redis is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, "notification issued",
		"user_id", notification.UserID,
		"text", notification.Text,
		"body", notification.Body,
	)
	return nil
}

func (n *LogNotifier) List(ctx context.Context, userID uint) ([]Notification, error) {
	return []Notification{}, nil
}

// feedCap bounds the per-user feed; oldest entries fall off.
const feedCap = 100

// RedisNotifier keeps a capped per-user feed, newest first.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

func feedKey(userID uint) string { return fmt.Sprintf("notifications:%d", userID) }

func (n *RedisNotifier) Notify(ctx context.Context, notification Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	key := feedKey(notification.UserID)
	pipe := n.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, feedCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "notification issued",
		"user_id", notification.UserID,
		"text", notification.Text,
	)
	return nil
}

func (n *RedisNotifier) List(ctx context.Context, userID uint) ([]Notification, error) {
	raw, err := n.client.LRange(ctx, feedKey(userID), 0, feedCap-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(raw))
	for _, item := range raw {
		var notification Notification
		if err := json.Unmarshal([]byte(item), &notification); err != nil {
			continue
		}
		out = append(out, notification)
	}
	return out, nil
}
