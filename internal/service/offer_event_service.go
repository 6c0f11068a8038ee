package service

import (
	"context"
	"time"

	"github.com/foody-next/internal/cache"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/queue"
	"github.com/foody-next/internal/repository"
)

// OfferEventPublisher 生命周期事件发布接口
type OfferEventPublisher interface {
	Publish(ctx context.Context, event queue.OfferEventPayload)
}

// OfferEventService 生命周期审计服务
type OfferEventService struct {
	repo         repository.OfferEventRepository
	offerRepo    repository.OfferRepository
	queueClient  *queue.Client
	storeTimeout time.Duration
}

// NewOfferEventService 创建审计服务
func NewOfferEventService(repo repository.OfferEventRepository, offerRepo repository.OfferRepository, queueClient *queue.Client, storeTimeout time.Duration) *OfferEventService {
	return &OfferEventService{
		repo:         repo,
		offerRepo:    offerRepo,
		queueClient:  queueClient,
		storeTimeout: storeTimeout,
	}
}

// Publish 优先异步入队，队列未启用或入队失败时同步写入
func (s *OfferEventService) Publish(ctx context.Context, event queue.OfferEventPayload) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = models.NowUTC()
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOfferEvent(ctx, event)
		if err == nil {
			return
		}
		logger.Warnw("offer_event_enqueue_failed",
			"offer_id", event.OfferID,
			"action", event.Action,
			"error", err,
		)
	}
	if err := s.Record(ctx, event); err != nil {
		logger.Warnw("offer_event_record_failed",
			"offer_id", event.OfferID,
			"action", event.Action,
			"error", err,
		)
	}
}

// Record 写入审计记录并使公共列表缓存失效
func (s *OfferEventService) Record(ctx context.Context, event queue.OfferEventPayload) error {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = models.NowUTC()
	}
	row := &models.OfferEvent{
		OfferID:      event.OfferID,
		RestaurantID: event.RestaurantID,
		Action:       event.Action,
		FromStatus:   event.FromStatus,
		ToStatus:     event.ToStatus,
		CreatedAt:    occurredAt.UTC(),
	}
	if err := s.repo.Create(storeCtx, row); err != nil {
		return wrapStoreError(storeCtx, err)
	}
	if err := cache.InvalidatePublicFeed(ctx); err != nil {
		logger.Warnw("public_feed_invalidate_failed", "offer_id", event.OfferID, "error", err)
	}
	return nil
}

// List 查询单个商品的审计记录
func (s *OfferEventService) List(ctx context.Context, restaurantID, offerID uint, limit int) ([]models.OfferEvent, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	exists, err := s.offerRepo.Exists(storeCtx, restaurantID, offerID)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	events, err := s.repo.ListByOffer(storeCtx, restaurantID, offerID, limit)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	return events, nil
}
