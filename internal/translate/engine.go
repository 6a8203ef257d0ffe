package translate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/luoxin627/taihua/internal/logger"
)

// DefaultShortTextThreshold 短文本阈值（字符数）。
// 不超过阈值的文本先走主后端（低延迟），超过的先走次后端（长文本更稳）。
// 这是延迟/吞吐权衡的经验值，不是协议边界，可通过 EngineConfig 调整。
const DefaultShortTextThreshold = 500

// EngineConfig 失败切换引擎配置。
type EngineConfig struct {
	// Primary 主后端，短文本优先。
	Primary Backend
	// Secondary 次后端，长文本优先。
	Secondary Backend
	// ShortTextThreshold 短文本阈值（字符数），0 表示使用默认值。
	ShortTextThreshold int
}

// Engine 翻译失败切换引擎。
// 按文本长度决定主备尝试顺序，单个后端失败后自动换另一个，
// 两个都失败才向调用方返回错误，并保留两次失败的原因。
// 同时提供单工作协程的异步执行路径（Submit / AwaitResult / IsDone）。
type Engine struct {
	primary   Backend
	secondary Backend
	threshold int

	async asyncState
}

// NewEngine 创建翻译引擎并启动异步工作协程。
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Primary == nil || cfg.Secondary == nil {
		return nil, fmt.Errorf("翻译引擎需要主备两个后端")
	}

	threshold := cfg.ShortTextThreshold
	if threshold <= 0 {
		threshold = DefaultShortTextThreshold
	}

	e := &Engine{
		primary:   cfg.Primary,
		secondary: cfg.Secondary,
		threshold: threshold,
	}
	e.startWorker()

	logger.Infof("[translate] 翻译引擎已初始化: %s / %s (短文本阈值 %d 字符)",
		cfg.Primary.Name(), cfg.Secondary.Name(), threshold)
	return e, nil
}

// Translate 将泰语文本翻译为中文。
// 空白输入直接返回空结果，不调用任何后端。
// 其余情况按长度选择首选后端，失败后换另一个，单个后端只尝试一次。
func (e *Engine) Translate(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Route: RouteEmpty}, nil
	}

	short := utf8.RuneCountInString(text) <= e.threshold

	var first, second Backend
	var firstRoute, fallbackRoute Route
	if short {
		first, second = e.primary, e.secondary
		firstRoute, fallbackRoute = RoutePrimary, RouteSecondaryFallback
	} else {
		first, second = e.secondary, e.primary
		firstRoute, fallbackRoute = RouteSecondary, RoutePrimaryFallback
	}

	out, firstErr := first.Translate(ctx, text)
	if firstErr == nil {
		return Result{Text: out, Route: firstRoute, Engine: first.Name()}, nil
	}

	logger.Warnf("[translate] 后端 %s 失败，切换到 %s: %v",
		first.Name(), second.Name(), firstErr)

	out, secondErr := second.Translate(ctx, text)
	if secondErr == nil {
		logger.Infof("[translate] 后端 %s 兜底成功", second.Name())
		return Result{Text: out, Route: fallbackRoute, Engine: second.Name()}, nil
	}

	// 两个后端都失败，两次失败原因一并带出
	return Result{}, &Error{
		Kind: KindAllBackendsFailed,
		Causes: []error{
			fmt.Errorf("%s: %w", first.Name(), firstErr),
			fmt.Errorf("%s: %w", second.Name(), secondErr),
		},
	}
}
