package router

import (
	"fmt"
	"strings"

	"github.com/foody-next/internal/cache"
	"github.com/foody-next/internal/config"
	merchanthandlers "github.com/foody-next/internal/http/handlers/merchant"
	publichandlers "github.com/foody-next/internal/http/handlers/public"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/provider"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/商户分组）
	publicHandler := publichandlers.New(c)
	merchantHandler := merchanthandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "foody"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:merchant_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts, retry in %d seconds",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:merchant_register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/offers", publicHandler.ListOffers)
		}

		merchantGroup := apiV1.Group("/merchant")
		{
			// 注册与登录（无需鉴权）
			merchantGroup.POST("/register_public", RateLimitMiddleware(redisClient, registerRule, KeyByIP), merchantHandler.Register)
			merchantGroup.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("login", service.NormalizeLogin)), merchantHandler.Login)

			authorized := merchantGroup.Group("")
			authorized.Use(MerchantAuthMiddleware(c.MerchantAuthService))
			{
				authorized.GET("/profile", merchantHandler.GetProfile)
				authorized.PUT("/profile", merchantHandler.UpdateProfile)
				authorized.PUT("/password", merchantHandler.ChangePassword)

				authorized.GET("/offers", merchantHandler.ListOffers)
				authorized.POST("/offers", merchantHandler.CreateOffer)
				authorized.POST("/offers/update", merchantHandler.LegacyUpdateOffer)
				authorized.POST("/offers/delete", merchantHandler.LegacyDeleteOffer)
				authorized.GET("/offers/:id", merchantHandler.GetOffer)
				authorized.PUT("/offers/:id", merchantHandler.UpdateOffer)
				authorized.PATCH("/offers/:id", merchantHandler.UpdateOffer)
				authorized.DELETE("/offers/:id", merchantHandler.DeleteOffer)
				authorized.PATCH("/offers/:id/pause", merchantHandler.PauseOffer)
				authorized.PATCH("/offers/:id/resume", merchantHandler.ResumeOffer)
				authorized.POST("/offers/:id/duplicate", merchantHandler.DuplicateOffer)
				authorized.GET("/offers/:id/events", merchantHandler.ListOfferEvents)
			}
		}
	}

	// 健康检查
	r.GET("/health", publicHandler.Health)
	r.GET("/", publicHandler.Health)

	return r
}
