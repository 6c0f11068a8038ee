package merchant

import (
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 商户资料更新请求，work_from/work_to 为营业时间别名
type UpdateProfileRequest struct {
	Name      *string  `json:"name"`
	Phone     *string  `json:"phone"`
	Email     *string  `json:"email"`
	Address   *string  `json:"address"`
	City      *string  `json:"city"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	OpenTime  *string  `json:"open_time"`
	CloseTime *string  `json:"close_time"`
	WorkFrom  *string  `json:"work_from"`
	WorkTo    *string  `json:"work_to"`
}

// GetProfile 获取商户资料
func (h *Handler) GetProfile(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	profile, err := h.MerchantService.GetProfile(c.Request.Context(), restaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新商户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	openTime := req.OpenTime
	if openTime == nil {
		openTime = req.WorkFrom
	}
	closeTime := req.CloseTime
	if closeTime == nil {
		closeTime = req.WorkTo
	}
	profile, err := h.MerchantService.UpdateProfile(c.Request.Context(), restaurantID, service.UpdateProfileInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		Lat:       req.Lat,
		Lng:       req.Lng,
		OpenTime:  openTime,
		CloseTime: closeTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}
