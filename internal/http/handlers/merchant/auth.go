package merchant

import (
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 商户注册请求
type RegisterRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	City     string `json:"city"`
}

// LoginRequest 商户登录请求
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register 商户自助注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	session, err := h.MerchantAuthService.Register(c.Request.Context(), service.RegisterMerchantInput{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
		City:     req.City,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// Login 商户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	session, err := h.MerchantAuthService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	restaurantID, ok := getRestaurantID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	if err := h.MerchantAuthService.ChangePassword(c.Request.Context(), restaurantID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
