package provider

import (
	"github.com/foody-next/internal/cache"
	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/queue"
	"github.com/foody-next/internal/repository"
	"github.com/foody-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	MerchantRepo     repository.MerchantRepository
	OfferRepo        repository.OfferRepository
	OfferCounterRepo repository.OfferCounterRepository
	OfferEventRepo   repository.OfferEventRepository

	// Services
	MerchantAuthService *service.MerchantAuthService
	MerchantService     *service.MerchantService
	OfferService        *service.OfferService
	OfferEventService   *service.OfferEventService
}

// NewContainer 初始化容器，db 由调用方创建并负责关闭
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时事件同步落库
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	c.MerchantRepo = repository.NewMerchantRepository(c.DB)
	c.OfferRepo = repository.NewOfferRepository(c.DB)
	c.OfferCounterRepo = repository.NewOfferCounterRepository(c.DB)
	c.OfferEventRepo = repository.NewOfferEventRepository(c.DB)
}

func (c *Container) initServices() {
	storeTimeout := c.Config.Offer.StoreTimeout()
	c.MerchantAuthService = service.NewMerchantAuthService(c.Config, c.MerchantRepo)
	c.MerchantService = service.NewMerchantService(c.MerchantRepo, storeTimeout)
	c.OfferEventService = service.NewOfferEventService(c.OfferEventRepo, c.OfferRepo, c.QueueClient, storeTimeout)
	c.OfferService = service.NewOfferService(c.OfferRepo, c.OfferCounterRepo, c.OfferEventService, c.Config.Offer)
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
