package queue

import (
	"encoding/json"
	"time"

	"github.com/foody-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskOfferEvent 优惠商品生命周期事件任务
const TaskOfferEvent = constants.TaskOfferEvent

// OfferEventPayload 生命周期事件任务载荷
type OfferEventPayload struct {
	OfferID      uint      `json:"offer_id"`
	RestaurantID uint      `json:"restaurant_id"`
	Action       string    `json:"action"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewOfferEventTask 创建生命周期事件任务
func NewOfferEventTask(payload OfferEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferEvent, body), nil
}

// ParseOfferEventPayload 解析生命周期事件任务载荷
func ParseOfferEventPayload(task *asynq.Task) (OfferEventPayload, error) {
	var payload OfferEventPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
