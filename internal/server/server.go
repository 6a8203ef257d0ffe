package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luoxin627/taihua/internal/config"
	"github.com/luoxin627/taihua/internal/history"
	"github.com/luoxin627/taihua/internal/logger"
	"github.com/luoxin627/taihua/internal/translate"
	"github.com/luoxin627/taihua/internal/tts"
)

// Server 是泰译中语音服务的 HTTP 边界层。
// 只负责路由、序列化和错误映射，翻译与合成的编排逻辑都在各自的包里。
type Server struct {
	translator   *translate.Engine
	speech       *tts.Provider
	store        *history.Store
	audioDir     string
	awaitTimeout time.Duration

	httpServer *http.Server
}

// New 创建服务并确保音频输出目录存在。store 可以为 nil（不记录历史）。
func New(cfg config.ServerConfig, translator *translate.Engine, speech *tts.Provider,
	store *history.Store, awaitTimeout time.Duration) (*Server, error) {

	if err := os.MkdirAll(cfg.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("创建音频目录失败: %w", err)
	}
	if awaitTimeout <= 0 {
		awaitTimeout = 30 * time.Second
	}

	s := &Server{
		translator:   translator,
		speech:       speech,
		store:        store,
		audioDir:     cfg.AudioDir,
		awaitTimeout: awaitTimeout,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Router(),
	}
	return s, nil
}

// Router 构建路由。单独暴露方便测试。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/voices", s.handleVoices)
	r.Post("/api/convert", s.handleConvert)
	r.Post("/api/translate", s.handleSubmitTranslate)
	r.Get("/api/translate/result", s.handleTranslateResult)
	r.Get("/api/translate/status", s.handleTranslateStatus)
	r.Get("/api/history", s.handleHistory)

	// 合成产物静态访问
	fileServer := http.FileServer(http.Dir(s.audioDir))
	r.Handle("/audio/*", http.StripPrefix("/audio/", fileServer))

	return r
}

// Start 启动 HTTP 服务，阻塞直到服务停止。
func (s *Server) Start() error {
	logger.Infof("[server] 服务启动于 %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown 优雅关闭：先停 HTTP，再释放翻译引擎和语音后端。
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.translator.Close()
	s.speech.Shutdown()
	logger.Info("[server] 服务已停止")
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("[server] 写响应失败: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, stage, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "stage": stage})
}
