package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/foody-next/internal/cache"
	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/constants"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/queue"
	"github.com/foody-next/internal/repository"

	"gorm.io/gorm"
)

// OfferService 优惠商品生命周期服务
type OfferService struct {
	offerRepo   repository.OfferRepository
	counterRepo repository.OfferCounterRepository
	events      OfferEventPublisher
	cfg         config.OfferConfig
	now         func() time.Time
}

// NewOfferService 创建优惠商品服务
func NewOfferService(offerRepo repository.OfferRepository, counterRepo repository.OfferCounterRepository, events OfferEventPublisher, cfg config.OfferConfig) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		counterRepo: counterRepo,
		events:      events,
		cfg:         cfg,
		now:         models.NowUTC,
	}
}

// OfferView 对外输出的商品视图
type OfferView struct {
	ID                 uint          `json:"id"`
	RestaurantID       uint          `json:"restaurant_id"`
	Title              string        `json:"title"`
	Price              models.Money  `json:"price"`
	OriginalPrice      *models.Money `json:"original_price"`
	PriceCents         int64         `json:"price_cents"`
	OriginalPriceCents *int64        `json:"original_price_cents"`
	DiscountPercent    *int          `json:"discount_percent"`
	QtyTotal           int           `json:"qty_total"`
	QtyLeft            int           `json:"qty_left"`
	Status             string        `json:"status"`
	ExpiresAt          *string       `json:"expires_at"`
	ImageURL           *string       `json:"image_url"`
	Category           *string       `json:"category"`
	Description        *string       `json:"description"`
	CreatedAt          string        `json:"created_at"`
	UpdatedAt          string        `json:"updated_at"`
	ReservationsCount  int64         `json:"reservations_count"`
	RedemptionsCount   int64         `json:"redemptions_count"`
}

// ListOffersInput 列表查询参数
type ListOffersInput struct {
	Status string
	Search string
	Sort   string
	Page   int
	Limit  int
}

// OfferListResult 列表结果，total 恒为空
type OfferListResult struct {
	Items []OfferView `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total *int64      `json:"total"`
}

// CreateOfferInput 创建商品参数
type CreateOfferInput struct {
	Title         string
	Price         *models.Money
	OriginalPrice *models.Money
	QtyTotal      *int
	QtyLeft       *int
	ExpiresAt     string
	ImageURL      *string
	Category      *string
	Description   *string
}

// UpdateOfferInput 部分更新参数，nil 表示不修改
// ExpiresAt 为空字符串或 ClearExpiresAt 为真时清空过期时间
type UpdateOfferInput struct {
	Title              *string
	Price              *models.Money
	OriginalPrice      *models.Money
	ClearOriginalPrice bool
	QtyTotal           *int
	QtyLeft            *int
	ExpiresAt          *string
	ClearExpiresAt     bool
	ImageURL           *string
	Category           *string
	Description        *string
	Status             *string
}

// UpdateOfferResult 更新结果
type UpdateOfferResult struct {
	OK      bool `json:"ok"`
	Updated int  `json:"updated"`
}

// ArchiveOfferResult 归档结果
type ArchiveOfferResult struct {
	OK bool `json:"ok"`
	ID uint `json:"id"`
}

// PublicFeedInput 公共列表参数
type PublicFeedInput struct {
	RestaurantID uint
	Limit        int
}

// List 商户商品列表
func (s *OfferService) List(ctx context.Context, restaurantID uint, input ListOffersInput) (*OfferListResult, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	statuses, err := repository.ParseOfferStatusFilter(input.Status)
	if err != nil {
		return nil, ErrInvalidOfferStatus
	}
	page, limit := repository.NormalizePage(input.Page, input.Limit, s.defaultLimit(), s.maxLimit())

	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	now := s.now()
	offers, err := s.offerRepo.List(storeCtx, repository.OfferListFilter{
		RestaurantID: restaurantID,
		Statuses:     statuses,
		Search:       input.Search,
		Sort:         repository.ParseOfferSort(input.Sort),
		Page:         page,
		PageSize:     limit,
		Now:          now,
	})
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	return &OfferListResult{
		Items: s.buildViews(storeCtx, offers, now),
		Page:  page,
		Limit: limit,
		Total: nil,
	}, nil
}

// Get 获取单个商品，已归档商品可见
func (s *OfferService) Get(ctx context.Context, restaurantID, id uint) (*OfferView, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	offer, err := s.offerRepo.GetByID(storeCtx, restaurantID, id)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	return s.buildView(storeCtx, offer), nil
}

// Create 创建商品，返回新 ID
func (s *OfferService) Create(ctx context.Context, restaurantID uint, input CreateOfferInput) (uint, error) {
	if restaurantID == 0 {
		return 0, ErrTenantRequired
	}
	offer, err := s.buildNewOffer(restaurantID, input)
	if err != nil {
		return 0, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()
	if err := s.offerRepo.Create(storeCtx, offer); err != nil {
		return 0, wrapStoreError(storeCtx, err)
	}

	s.publish(ctx, offer, constants.OfferEventCreate, "", offer.Status)
	return offer.ID, nil
}

func (s *OfferService) buildNewOffer(restaurantID uint, input CreateOfferInput) (*models.Offer, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrOfferTitleRequired
	}
	if input.Price == nil || input.Price.IsNegative() {
		return nil, ErrInvalidOfferPrice
	}
	var originalCents *int64
	if input.OriginalPrice != nil {
		if input.OriginalPrice.IsNegative() {
			return nil, ErrInvalidOfferPrice
		}
		cents := input.OriginalPrice.Cents()
		originalCents = &cents
	}

	qtyTotal := 1
	if input.QtyTotal != nil {
		qtyTotal = *input.QtyTotal
	}
	if qtyTotal < 1 {
		return nil, ErrInvalidOfferQuantity
	}
	qtyLeft := qtyTotal
	if input.QtyLeft != nil {
		qtyLeft = *input.QtyLeft
	}
	if qtyLeft < 0 {
		return nil, ErrInvalidOfferQuantity
	}

	var expiresAt *time.Time
	if strings.TrimSpace(input.ExpiresAt) != "" {
		parsed, err := ParseOfferTime(input.ExpiresAt)
		if err != nil {
			return nil, err
		}
		expiresAt = &parsed
	}

	return &models.Offer{
		RestaurantID:       restaurantID,
		MerchantID:         restaurantID,
		Title:              title,
		PriceCents:         input.Price.Cents(),
		OriginalPriceCents: originalCents,
		QtyTotal:           qtyTotal,
		QtyLeft:            qtyLeft,
		Status:             s.initialStatus(),
		ExpiresAt:          expiresAt,
		ImageURL:           normalizeOptionalText(input.ImageURL),
		Category:           normalizeOptionalText(input.Category),
		Description:        normalizeOptionalText(input.Description),
	}, nil
}

// Update 部分更新未归档商品
func (s *OfferService) Update(ctx context.Context, restaurantID, id uint, input UpdateOfferInput) (*UpdateOfferResult, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	fields, err := buildOfferUpdateFields(input)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	var before *models.Offer
	var updated int64
	err = s.offerRepo.Transaction(storeCtx, func(tx *gorm.DB) error {
		repo := s.offerRepo.WithTx(tx)
		current, err := repo.GetLiveByID(storeCtx, restaurantID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		before = current
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = s.now()
		updated, err = repo.UpdateFields(storeCtx, restaurantID, id, fields)
		if err != nil {
			return err
		}
		if updated == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreError(storeCtx, err)
	}

	if updated > 0 {
		toStatus := before.Status
		if status, ok := fields["status"].(string); ok {
			toStatus = status
		}
		s.publish(ctx, before, constants.OfferEventUpdate, before.Status, toStatus)
	}
	return &UpdateOfferResult{OK: true, Updated: int(updated)}, nil
}

// buildOfferUpdateFields 校验并收集需要更新的列
func buildOfferUpdateFields(input UpdateOfferInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrOfferTitleRequired
		}
		fields["title"] = title
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrInvalidOfferPrice
		}
		fields["price_cents"] = input.Price.Cents()
	}
	if input.OriginalPrice != nil {
		if input.OriginalPrice.IsNegative() {
			return nil, ErrInvalidOfferPrice
		}
		fields["original_price_cents"] = input.OriginalPrice.Cents()
	} else if input.ClearOriginalPrice {
		fields["original_price_cents"] = nil
	}
	if input.QtyTotal != nil {
		if *input.QtyTotal < 1 {
			return nil, ErrInvalidOfferQuantity
		}
		fields["qty_total"] = *input.QtyTotal
	}
	if input.QtyLeft != nil {
		if *input.QtyLeft < 0 {
			return nil, ErrInvalidOfferQuantity
		}
		fields["qty_left"] = *input.QtyLeft
	}
	switch {
	case input.ExpiresAt != nil && strings.TrimSpace(*input.ExpiresAt) != "":
		parsed, err := ParseOfferTime(*input.ExpiresAt)
		if err != nil {
			return nil, err
		}
		fields["expires_at"] = parsed
	case input.ExpiresAt != nil || input.ClearExpiresAt:
		fields["expires_at"] = nil
	}
	// 空字符串清空可选文本字段
	if input.ImageURL != nil {
		fields["image_url"] = normalizeOptionalText(input.ImageURL)
	}
	if input.Category != nil {
		fields["category"] = normalizeOptionalText(input.Category)
	}
	if input.Description != nil {
		fields["description"] = normalizeOptionalText(input.Description)
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !repository.IsKnownOfferStatus(status) || status == constants.OfferStatusArchived {
			return nil, ErrInvalidOfferStatus
		}
		fields["status"] = status
	}
	return fields, nil
}

// Pause 暂停商品，重复暂停视为成功
func (s *OfferService) Pause(ctx context.Context, restaurantID, id uint) (*OfferView, error) {
	return s.transition(ctx, restaurantID, id, constants.OfferStatusPaused, constants.OfferEventPause)
}

// Resume 恢复商品为 active，不检查过期时间
func (s *OfferService) Resume(ctx context.Context, restaurantID, id uint) (*OfferView, error) {
	return s.transition(ctx, restaurantID, id, constants.OfferStatusActive, constants.OfferEventResume)
}

func (s *OfferService) transition(ctx context.Context, restaurantID, id uint, status, action string) (*OfferView, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	var fromStatus string
	var result *models.Offer
	err := s.offerRepo.Transaction(storeCtx, func(tx *gorm.DB) error {
		repo := s.offerRepo.WithTx(tx)
		current, err := repo.GetLiveByID(storeCtx, restaurantID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		fromStatus = current.Status
		affected, err := repo.SetStatus(storeCtx, restaurantID, id, status)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		result, err = repo.GetLiveByID(storeCtx, restaurantID, id)
		if err != nil {
			return err
		}
		if result == nil {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreError(storeCtx, err)
	}

	s.publish(ctx, result, action, fromStatus, status)
	return s.buildView(storeCtx, result), nil
}

// Duplicate 复制商品为草稿，剩余数量重置为总数量
func (s *OfferService) Duplicate(ctx context.Context, restaurantID, id uint) (*OfferView, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	source, err := s.offerRepo.GetLiveByID(storeCtx, restaurantID, id)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if source == nil {
		return nil, ErrNotFound
	}

	copied := &models.Offer{
		RestaurantID:       source.RestaurantID,
		MerchantID:         source.RestaurantID,
		Title:              source.Title,
		PriceCents:         source.PriceCents,
		OriginalPriceCents: copyInt64Ptr(source.OriginalPriceCents),
		QtyTotal:           source.QtyTotal,
		QtyLeft:            source.QtyTotal,
		Status:             constants.OfferStatusDraft,
		ExpiresAt:          copyTimePtr(source.ExpiresAt),
		ImageURL:           copyStringPtr(source.ImageURL),
		Category:           copyStringPtr(source.Category),
		Description:        copyStringPtr(source.Description),
	}
	if err := s.offerRepo.Create(storeCtx, copied); err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}

	s.publish(ctx, copied, constants.OfferEventDuplicate, "", copied.Status)
	return s.buildView(storeCtx, copied), nil
}

// Archive 软删除商品，已归档的商品再次删除仍返回成功
func (s *OfferService) Archive(ctx context.Context, restaurantID, id uint) (*ArchiveOfferResult, error) {
	if restaurantID == 0 {
		return nil, ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	current, err := s.offerRepo.GetLiveByID(storeCtx, restaurantID, id)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	affected, err := s.offerRepo.Archive(storeCtx, restaurantID, id, s.now())
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if affected == 0 {
		exists, err := s.offerRepo.Exists(storeCtx, restaurantID, id)
		if err != nil {
			return nil, wrapStoreError(storeCtx, err)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return &ArchiveOfferResult{OK: true, ID: id}, nil
	}

	fromStatus := ""
	if current != nil {
		fromStatus = current.Status
	}
	s.publish(ctx, &models.Offer{ID: id, RestaurantID: restaurantID}, constants.OfferEventArchive, fromStatus, constants.OfferStatusArchived)
	return &ArchiveOfferResult{OK: true, ID: id}, nil
}

// ListPublic 公共优惠列表，结果短暂缓存
func (s *OfferService) ListPublic(ctx context.Context, input PublicFeedInput) ([]OfferView, error) {
	_, limit := repository.NormalizePage(1, input.Limit, s.publicFeedLimit(), s.publicFeedLimit())

	var cached []OfferView
	slot, hit, err := cache.GetPublicFeed(ctx, input.RestaurantID, limit, &cached)
	if err != nil {
		logger.Warnw("public_feed_cache_get_failed", "restaurant_id", input.RestaurantID, "error", err)
	} else if hit {
		return cached, nil
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout())
	defer cancel()

	now := s.now()
	offers, err := s.offerRepo.ListPublic(storeCtx, repository.PublicOfferFilter{
		RestaurantID: input.RestaurantID,
		Limit:        limit,
		Now:          now,
	})
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	views := s.buildViews(storeCtx, offers, now)

	if err := cache.SetPublicFeed(ctx, slot, views, s.cfg.PublicFeedTTL()); err != nil {
		logger.Warnw("public_feed_cache_set_failed", "restaurant_id", input.RestaurantID, "error", err)
	}
	return views, nil
}

func (s *OfferService) publish(ctx context.Context, offer *models.Offer, action, fromStatus, toStatus string) {
	if s.events == nil || offer == nil {
		return
	}
	s.events.Publish(ctx, queue.OfferEventPayload{
		OfferID:      offer.ID,
		RestaurantID: offer.RestaurantID,
		Action:       action,
		FromStatus:   fromStatus,
		ToStatus:     toStatus,
		OccurredAt:   s.now(),
	})
}

func (s *OfferService) buildView(ctx context.Context, offer *models.Offer) *OfferView {
	views := s.buildViews(ctx, []models.Offer{*offer}, s.now())
	return &views[0]
}

// buildViews 组装视图，计数查询失败时降级为 0
func (s *OfferService) buildViews(ctx context.Context, offers []models.Offer, now time.Time) []OfferView {
	views := make([]OfferView, 0, len(offers))
	if len(offers) == 0 {
		return views
	}
	counts := s.loadCounts(ctx, offers)
	for i := range offers {
		offer := &offers[i]
		view := OfferView{
			ID:                 offer.ID,
			RestaurantID:       offer.RestaurantID,
			Title:              offer.Title,
			Price:              models.NewMoneyFromCents(offer.PriceCents),
			OriginalPrice:      models.CentsToDisplay(offer.OriginalPriceCents),
			PriceCents:         offer.PriceCents,
			OriginalPriceCents: offer.OriginalPriceCents,
			DiscountPercent:    models.DiscountPercent(offer.PriceCents, offer.OriginalPriceCents),
			QtyTotal:           offer.QtyTotal,
			QtyLeft:            offer.QtyLeft,
			Status:             ResolveOfferStatus(offer.Status, offer.ExpiresAt, now),
			ExpiresAt:          formatOfferTimePtr(offer.ExpiresAt),
			ImageURL:           offer.ImageURL,
			Category:           offer.Category,
			Description:        offer.Description,
			CreatedAt:          FormatOfferTime(offer.CreatedAt),
			UpdatedAt:          FormatOfferTime(offer.UpdatedAt),
		}
		if c, ok := counts[offer.ID]; ok {
			view.ReservationsCount = c.Reservations
			view.RedemptionsCount = c.Redemptions
		}
		views = append(views, view)
	}
	return views
}

func (s *OfferService) loadCounts(ctx context.Context, offers []models.Offer) map[uint]repository.OfferCounts {
	if s.counterRepo == nil {
		return nil
	}
	ids := make([]uint, 0, len(offers))
	for _, offer := range offers {
		ids = append(ids, offer.ID)
	}
	counts, err := s.counterRepo.CountByOfferIDs(ctx, ids)
	if err != nil {
		logger.Warnw("offer_counts_lookup_failed", "offer_count", len(ids), "error", err)
		return nil
	}
	return counts
}

func (s *OfferService) initialStatus() string {
	switch s.cfg.DefaultStatus {
	case constants.OfferStatusDraft:
		return constants.OfferStatusDraft
	default:
		return constants.OfferStatusActive
	}
}

func (s *OfferService) defaultLimit() int {
	if s.cfg.DefaultLimit > 0 {
		return s.cfg.DefaultLimit
	}
	return constants.DefaultOfferPageSize
}

func (s *OfferService) maxLimit() int {
	if s.cfg.MaxLimit > 0 {
		return s.cfg.MaxLimit
	}
	return constants.MaxOfferPageSize
}

func (s *OfferService) publicFeedLimit() int {
	if s.cfg.PublicFeedLimit > 0 {
		return s.cfg.PublicFeedLimit
	}
	return constants.DefaultPublicFeedSize
}

func normalizeOptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func copyStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func copyInt64Ptr(value *int64) *int64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func copyTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
