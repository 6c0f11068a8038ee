package worker

import (
	"context"

	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/provider"
	"github.com/foody-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOfferEvent, c.handleOfferEvent)
}

func (c *Consumer) handleOfferEvent(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_offer_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOfferEventPayload(task)
	if err != nil {
		logger.Warnw("worker_offer_event_unmarshal_failed", "error", err)
		return err
	}
	if payload.OfferID == 0 || payload.Action == "" {
		logger.Debugw("worker_offer_event_skip_invalid_payload", "offer_id", payload.OfferID, "action", payload.Action)
		return nil
	}
	if c.Container == nil || c.OfferEventService == nil {
		logger.Warnw("worker_offer_event_skip_service_nil", "offer_id", payload.OfferID)
		return nil
	}
	if err := c.OfferEventService.Record(ctx, payload); err != nil {
		logger.Warnw("worker_offer_event_record_failed",
			"offer_id", payload.OfferID,
			"restaurant_id", payload.RestaurantID,
			"action", payload.Action,
			"error", err,
		)
		return err
	}
	return nil
}
