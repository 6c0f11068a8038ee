package app

import (
	"errors"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/provider"
	"github.com/foody-next/internal/router"
	"github.com/foody-next/internal/worker"

	"go.uber.org/zap"
)

// BuildRunner 按启动模式组装服务
func BuildRunner(cfg *config.Config, container *provider.Container, mode string, log *zap.SugaredLogger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		switch {
		case cfg.Queue.Enabled:
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		case mode == ModeWorker:
			return nil, errors.New("worker mode requires queue.enabled")
		case log != nil:
			// 队列关闭时事件由 API 进程同步落库
			log.Warnw("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if opts.DB == nil {
		return errors.New("database is nil")
	}
	if !validMode(opts.Mode) {
		return errors.New("unknown mode: " + opts.Mode)
	}

	container := provider.NewContainer(opts.Config, opts.DB)
	defer container.Close()

	runner, err := BuildRunner(opts.Config, container, opts.Mode, opts.Logger)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
