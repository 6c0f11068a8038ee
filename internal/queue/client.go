package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 生命周期事件使用的队列
const DefaultQueue = constants.QueueDefault

const (
	offerEventMaxRetry = 5
	offerEventTimeout  = 30 * time.Second
	defaultConcurrency = 10
)

// Client 队列生产端；未启用时所有入队调用为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，cfg 为空或未启用时返回禁用的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOfferEvent 投递生命周期事件，失败自动重试
func (c *Client) EnqueueOfferEvent(ctx context.Context, payload OfferEventPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOfferEventTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(offerEventMaxRetry),
		asynq.Timeout(offerEventTimeout),
	)
	return err
}

// BuildServerConfig 生成消费端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
