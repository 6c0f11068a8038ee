package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/constants"
	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// 读取请求体中 restaurant_id 时的最大字节数
const maxTenantBodyBytes = 1 << 20

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
			constants.MerchantAPIKeyHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", c.GetString(response.RequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if rid, ok := c.Get(constants.CtxKeyRestaurantID); ok {
			log = log.With("restaurant_id", rid)
		}
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

// MerchantTokenAuthenticator 商户鉴权依赖，MerchantAuthService 实现
type MerchantTokenAuthenticator interface {
	service.MerchantAuthenticator
	ParseJWT(tokenString string) (*service.MerchantClaims, error)
}

// MerchantAuthMiddleware 商户鉴权中间件
// 凭证取自 X-Foody-Key 或 Bearer 令牌；租户依次取自令牌声明、restaurant_id 查询参数、请求体字段。
func MerchantAuthMiddleware(auth MerchantTokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := extractMerchantCredential(c)
		if credential == "" {
			response.Unauthorized(c, "missing credentials")
			c.Abort()
			return
		}

		restaurantID := resolveRestaurantID(c, auth, credential)
		if restaurantID == 0 {
			response.BadRequest(c, "restaurant_id is required")
			c.Abort()
			return
		}

		if err := auth.Authenticate(c.Request.Context(), restaurantID, credential); err != nil {
			handlershared.RespondServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.CtxKeyRestaurantID, restaurantID)
		c.Next()
	}
}

func extractMerchantCredential(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(constants.MerchantAPIKeyHeader)); key != "" {
		return key
	}
	parts := strings.SplitN(strings.TrimSpace(c.GetHeader("Authorization")), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func resolveRestaurantID(c *gin.Context, auth MerchantTokenAuthenticator, credential string) uint {
	if service.LooksLikeJWT(credential) {
		if claims, err := auth.ParseJWT(credential); err == nil && claims.MerchantID != 0 {
			return claims.MerchantID
		}
	}
	if raw := strings.TrimSpace(c.Query("restaurant_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(id)
		}
	}
	return restaurantIDFromBody(c)
}

// restaurantIDFromBody 读取 JSON 请求体中的 restaurant_id，读取后恢复请求体
func restaurantIDFromBody(c *gin.Context) uint {
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "json") {
		return 0
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTenantBodyBytes))
	if err != nil {
		return 0
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		RestaurantID json.Number `json:"restaurant_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0
	}
	id, err := strconv.ParseUint(payload.RestaurantID.String(), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
