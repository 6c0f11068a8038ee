package merchant

import (
	"context"
	"strings"

	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OfferRequest 创建/更新商品请求，价格支持字符串或数字；更新时原价与过期时间传 null 表示清空
type OfferRequest struct {
	Title         *string                              `json:"title"`
	Price         *models.Money                        `json:"price"`
	OriginalPrice handlershared.Nullable[models.Money] `json:"original_price"`
	QtyTotal      *int                                 `json:"qty_total"`
	QtyLeft       *int                                 `json:"qty_left"`
	ExpiresAt     handlershared.Nullable[string]       `json:"expires_at"`
	ImageURL      *string                              `json:"image_url"`
	Category      *string                              `json:"category"`
	Description   *string                              `json:"description"`
	Status        *string                              `json:"status"`
}

// LegacyOfferRequest 旧版接口请求，商品 ID 放在请求体中
type LegacyOfferRequest struct {
	OfferRequest
	ID uint `json:"id"`
}

func (r OfferRequest) toCreateInput() service.CreateOfferInput {
	input := service.CreateOfferInput{
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice.Ptr(),
		QtyTotal:      r.QtyTotal,
		QtyLeft:       r.QtyLeft,
		ImageURL:      r.ImageURL,
		Category:      r.Category,
		Description:   r.Description,
	}
	if r.Title != nil {
		input.Title = *r.Title
	}
	if expiresAt := r.ExpiresAt.Ptr(); expiresAt != nil {
		input.ExpiresAt = *expiresAt
	}
	return input
}

func (r OfferRequest) toUpdateInput() service.UpdateOfferInput {
	return service.UpdateOfferInput{
		Title:              r.Title,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice.Ptr(),
		ClearOriginalPrice: r.OriginalPrice.Null,
		QtyTotal:           r.QtyTotal,
		QtyLeft:            r.QtyLeft,
		ExpiresAt:          r.ExpiresAt.Ptr(),
		ClearExpiresAt:     r.ExpiresAt.Null,
		ImageURL:           r.ImageURL,
		Category:           r.Category,
		Description:        r.Description,
		Status:             r.Status,
	}
}

// ListOffers 商户商品列表
func (h *Handler) ListOffers(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	search := c.Query("q")
	if strings.TrimSpace(search) == "" {
		search = c.Query("search")
	}
	result, err := h.OfferService.List(c.Request.Context(), restaurantID, service.ListOffersInput{
		Status: c.Query("status"),
		Search: search,
		Sort:   c.Query("sort"),
		Page:   handlershared.QueryInt(c, "page"),
		Limit:  handlershared.QueryInt(c, "limit"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// GetOffer 获取商品详情
func (h *Handler) GetOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	id, ok := parseOfferID(c)
	if !ok {
		return
	}
	view, err := h.OfferService.Get(c.Request.Context(), restaurantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// CreateOffer 创建商品
func (h *Handler) CreateOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	id, err := h.OfferService.Create(c.Request.Context(), restaurantID, req.toCreateInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// UpdateOffer 部分更新商品
func (h *Handler) UpdateOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	id, ok := parseOfferID(c)
	if !ok {
		return
	}
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	h.applyUpdate(c, restaurantID, id, req)
}

// LegacyUpdateOffer 旧版更新接口
func (h *Handler) LegacyUpdateOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	var req LegacyOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	if req.ID == 0 {
		respondServiceError(c, service.ErrOfferIDRequired)
		return
	}
	h.applyUpdate(c, restaurantID, req.ID, req.OfferRequest)
}

func (h *Handler) applyUpdate(c *gin.Context, restaurantID, id uint, req OfferRequest) {
	result, err := h.OfferService.Update(c.Request.Context(), restaurantID, id, req.toUpdateInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// PauseOffer 暂停商品
func (h *Handler) PauseOffer(c *gin.Context) {
	h.transition(c, h.OfferService.Pause)
}

// ResumeOffer 恢复商品
func (h *Handler) ResumeOffer(c *gin.Context) {
	h.transition(c, h.OfferService.Resume)
}

// DuplicateOffer 复制商品为草稿
func (h *Handler) DuplicateOffer(c *gin.Context) {
	h.transition(c, h.OfferService.Duplicate)
}

func (h *Handler) transition(c *gin.Context, action func(ctx context.Context, restaurantID, id uint) (*service.OfferView, error)) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	id, ok := parseOfferID(c)
	if !ok {
		return
	}
	view, err := action(c.Request.Context(), restaurantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteOffer 归档商品，可重复调用
func (h *Handler) DeleteOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	id, ok := parseOfferID(c)
	if !ok {
		return
	}
	h.archive(c, restaurantID, id)
}

// LegacyDeleteOffer 旧版删除接口
func (h *Handler) LegacyDeleteOffer(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	var req LegacyOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	if req.ID == 0 {
		respondServiceError(c, service.ErrOfferIDRequired)
		return
	}
	h.archive(c, restaurantID, req.ID)
}

func (h *Handler) archive(c *gin.Context, restaurantID, id uint) {
	result, err := h.OfferService.Archive(c.Request.Context(), restaurantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ListOfferEvents 商品生命周期记录
func (h *Handler) ListOfferEvents(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	id, ok := parseOfferID(c)
	if !ok {
		return
	}
	events, err := h.OfferEventService.List(c.Request.Context(), restaurantID, id, handlershared.QueryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, events)
}
