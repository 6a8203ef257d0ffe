package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luoxin627/taihua/internal/history"
	"github.com/luoxin627/taihua/internal/logger"
	"github.com/luoxin627/taihua/internal/translate"
	"github.com/luoxin627/taihua/internal/tts"
)

// convertRequest 一次完整转换请求：泰语文本 -> 中文 -> 音频。
type convertRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Speed string `json:"speed"`
}

// convertResponse 转换结果。
type convertResponse struct {
	Thai       string  `json:"thai"`
	Chinese    string  `json:"chinese"`
	Pinyin     string  `json:"pinyin"`
	Translator string  `json:"translator"`
	Route      string  `json:"route"`
	AudioURL   string  `json:"audio_url"`
	SizeKB     float64 `json:"size_kb"`
	DurationMs int64   `json:"duration_ms"`
}

// handleVoices 返回当前后端的音色目录，首次调用会触发后端加载。
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := s.speech.Voices(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "synthesis", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

// handleConvert 处理完整转换流程：翻译 -> 合成 -> 落盘 -> 记录历史。
// 翻译失败和合成失败分别标注 stage，便于前端提示是哪一步出了问题。
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request", "请求体不是有效的 JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "request", "缺少待转换的文本")
		return
	}

	// 1. 翻译
	result, err := s.translator.Translate(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, "translation", err.Error())
		return
	}

	// 2. 合成
	artifact, err := s.speech.Synthesize(r.Context(), tts.Request{
		Text:  result.Text,
		Voice: req.Voice,
		Speed: req.Speed,
	})
	if err != nil {
		status := http.StatusBadGateway
		if tts.IsEmptyText(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, "synthesis", err.Error())
		return
	}

	// 3. 落盘，通过 /audio/ 提供下载
	filename := uuid.NewString() + "." + artifact.Format
	if err := os.WriteFile(filepath.Join(s.audioDir, filename), artifact.Data, 0644); err != nil {
		writeError(w, http.StatusInternalServerError, "storage", err.Error())
		return
	}

	// 4. 历史记录失败只记日志，不影响本次请求
	if s.store != nil {
		if _, err := s.store.Add(history.Record{
			ThaiText:    req.Text,
			ChineseText: result.Text,
			Route:       string(result.Route),
			Engine:      result.Engine,
			Voice:       req.Voice,
			AudioFile:   filename,
			SizeBytes:   artifact.Size,
			DurationMs:  artifact.Duration.Milliseconds(),
		}); err != nil {
			logger.Warnf("[server] 写历史记录失败: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Thai:       req.Text,
		Chinese:    result.Text,
		Pinyin:     translate.Romanize(result.Text),
		Translator: result.Engine,
		Route:      string(result.Route),
		AudioURL:   "/audio/" + filename,
		SizeKB:     artifact.SizeKB(),
		DurationMs: artifact.Duration.Milliseconds(),
	})
}

// handleSubmitTranslate 提交异步翻译任务。
func (s *Server) handleSubmitTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request", "请求体不是有效的 JSON")
		return
	}

	switch err := s.translator.Submit(req.Text); {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
	case errors.Is(err, translate.ErrJobPending):
		writeError(w, http.StatusConflict, "translation", err.Error())
	case errors.Is(err, translate.ErrEngineClosed):
		writeError(w, http.StatusServiceUnavailable, "translation", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "translation", err.Error())
	}
}

// handleTranslateResult 等待异步翻译结果。
// 超时返回 504 并带 pending 标记，任务继续在后台运行，可以再来取。
func (s *Server) handleTranslateResult(w http.ResponseWriter, r *http.Request) {
	timeout := s.awaitTimeout
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
			timeout = time.Duration(secs * float64(time.Second))
		}
	}

	result, err := s.translator.AwaitResult(timeout)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case translate.IsNoJob(err):
		writeError(w, http.StatusNotFound, "translation", err.Error())
	case translate.IsTimeout(err):
		writeJSON(w, http.StatusGatewayTimeout, map[string]interface{}{
			"error":   err.Error(),
			"stage":   "translation",
			"pending": true,
		})
	default:
		writeError(w, http.StatusBadGateway, "translation", err.Error())
	}
}

// handleTranslateStatus 非阻塞查询异步翻译是否完成。
func (s *Server) handleTranslateStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"done": s.translator.IsDone()})
}

// handleHistory 返回最近的转换记录。
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.store.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history", err.Error())
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
