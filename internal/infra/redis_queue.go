package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bizledger.com/internal/constants"
	"bizledger.com/internal/domain"
)

// MailQueue 基于 Redis list 的邮件队列 (RPUSH -> BLPOP, FIFO)
type MailQueue struct {
	rdb *redis.Client
	key string
}

func NewMailQueue(rdb *redis.Client) *MailQueue {
	return &MailQueue{rdb: rdb, key: constants.RedisQueueMail}
}

// Enqueue pushes a job to the tail of the queue.
func (q *MailQueue) Enqueue(ctx context.Context, msg domain.MailMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail: %w", err)
	}

	if err := q.rdb.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push mail to redis: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the head of the queue.
// Returns nil, nil when the queue stayed empty.
func (q *MailQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.MailMessage, error) {
	val, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop mail from redis: %w", err)
	}

	// val[0] 是 key，val[1] 是 JSON 数据
	var msg domain.MailMessage
	if err := json.Unmarshal([]byte(val[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mail: %w", err)
	}
	return &msg, nil
}

// Len 队列长度
func (q *MailQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
