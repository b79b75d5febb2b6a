package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// stopTimeout 停机阶段的宽限时间，超时后不再等待服务收尾
const stopTimeout = 10 * time.Second

// Service 可被 Runner 托管的常驻服务
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 并发托管一组服务，任一服务退出即触发整体停机
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 挂接系统信号后运行 runner
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = opts.withDefaults()
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.Logger)
}

// Run 启动全部服务并阻塞到第一个退出原因出现（信号或服务错误），随后停止其余服务
func (r *Runner) Run(ctx context.Context, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(r.services))
	for _, svc := range r.services {
		go r.startOne(ctx, svc, log, errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-errCh:
		runErr = err
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	for _, svc := range r.services {
		if svc == nil {
			continue
		}
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}

	// 信号触发的取消属于正常退出
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (r *Runner) startOne(ctx context.Context, svc Service, log *zap.SugaredLogger, errCh chan<- error) {
	if svc == nil {
		errCh <- errors.New("service is nil")
		return
	}
	log.Infow("service_start", "service", svc.Name())
	errCh <- svc.Start(ctx)
	log.Infow("service_exit", "service", svc.Name())
}
