package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luoxin627/taihua/internal/config"
	"github.com/luoxin627/taihua/internal/history"
	"github.com/luoxin627/taihua/internal/logger"
	"github.com/luoxin627/taihua/internal/server"
	"github.com/luoxin627/taihua/internal/translate"
	"github.com/luoxin627/taihua/internal/tts"
)

func main() {
	configPath := flag.String("config", "configs/taihua.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infof("[main] taihua 启动中 (tts_engine=%s)", cfg.TTS.Engine)

	engine, err := buildTranslateEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建翻译引擎失败: %v\n", err)
		os.Exit(1)
	}

	speech, err := tts.NewProviderFromConfig(cfg.TTS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建语音服务失败: %v\n", err)
		os.Exit(1)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		// 历史记录不可用时服务降级运行
		logger.Warnf("[main] 打开历史数据库失败（历史记录不可用）: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	srv, err := server.New(cfg.Server, engine, speech, store,
		time.Duration(cfg.Translate.AwaitTimeout)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建服务失败: %v\n", err)
		os.Exit(1)
	}

	// 监听系统信号，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在关闭...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnf("[main] 关闭服务出错: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "服务运行出错: %v\n", err)
		os.Exit(1)
	}

	logger.Info("[main] taihua 已停止")
}

// buildTranslateEngine 组装主备翻译后端。
// 腾讯翻译低延迟做主后端，大模型翻译做长文本优先的次后端。
func buildTranslateEngine(cfg *config.Config) (*translate.Engine, error) {
	primary, err := translate.NewTencentBackend(
		cfg.Translate.Tencent.SecretID,
		cfg.Translate.Tencent.SecretKey,
		cfg.Translate.Tencent.Region,
	)
	if err != nil {
		return nil, err
	}

	secondary, err := translate.NewOpenAIBackend(
		cfg.Translate.OpenAI.APIURL,
		cfg.Translate.OpenAI.APIKey,
		cfg.Translate.OpenAI.Model,
	)
	if err != nil {
		return nil, err
	}

	return translate.NewEngine(translate.EngineConfig{
		Primary:            primary,
		Secondary:          secondary,
		ShortTextThreshold: cfg.Translate.ShortTextThreshold,
	})
}
