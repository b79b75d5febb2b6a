package app

import (
	"os"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/logger"

	"go.uber.org/zap"
)

// 启动模式：api 只起 HTTP，worker 只起队列消费，all 同进程运行二者。
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Signals []os.Signal
	Mode    string
}

// withDefaults 补齐缺省的日志器与启动模式
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	return o
}
