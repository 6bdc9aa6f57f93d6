package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mathscrusader/paygo-sub001/internal/logger"
)

// Event kinds consumed by the notification system and admin dashboards.
const (
	TransactionDecided = "transaction.decided"
	RewardCreated      = "reward.created"
	RewardPaid         = "reward.paid"
	WithdrawalDecided  = "withdrawal.decided"
)

type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel}
}

// Publish announces a settled state change. Delivery is best effort: a
// failed publish must never fail the settlement it describes, so errors are
// only logged. Safe to call on a nil publisher.
func (p *Publisher) Publish(ctx context.Context, kind string, payload map[string]interface{}) {
	if p == nil || p.rdb == nil {
		return
	}

	msg, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": payload,
		"at":   time.Now().UTC(),
	})
	if err != nil {
		logger.Log.Warn("event marshal failed", zap.String("type", kind), zap.Error(err))
		return
	}

	if err := p.rdb.Publish(ctx, p.channel, msg).Err(); err != nil {
		logger.Log.Warn("event publish failed", zap.String("type", kind), zap.Error(err))
	}
}
