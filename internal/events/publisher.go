package events

import (
	"context"

	"github.com/dumeirei/hotel-pms-backend/internal/common/cache"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
)

// RedisPublisher 基于 Redis Pub/Sub 的事件发布器
type RedisPublisher struct{}

// NewRedisPublisher 创建 Redis 事件发布器
func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{}
}

// Publish 发布事件，失败只记日志不影响主流程
func (p *RedisPublisher) Publish(ctx context.Context, channel string, event *Event) error {
	if err := cache.Publish(ctx, channel, event); err != nil {
		logger.Warn("发布事件失败",
			logger.String("channel", channel),
			logger.String("type", event.Type),
			logger.HotelID(event.HotelID),
			logger.Err(err),
		)
		return err
	}
	return nil
}

// NopPublisher 空实现，未接入 Redis 时使用
type NopPublisher struct{}

// NewNopPublisher 创建空事件发布器
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish 丢弃事件
func (p *NopPublisher) Publish(ctx context.Context, channel string, event *Event) error {
	return nil
}
