package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luoxin627/taihua/internal/config"
	"github.com/luoxin627/taihua/internal/history"
	"github.com/luoxin627/taihua/internal/translate"
	"github.com/luoxin627/taihua/internal/tts"
)

type stubTranslator struct {
	name string
	out  string
	err  error
}

func (s *stubTranslator) Name() string { return s.name }

func (s *stubTranslator) Translate(context.Context, string) (string, error) {
	return s.out, s.err
}

type stubSpeech struct{}

func (stubSpeech) Name() string   { return "stub" }
func (stubSpeech) Format() string { return "mp3" }

func (stubSpeech) ListCapabilities(context.Context) ([]tts.Capability, error) {
	return []tts.Capability{
		{ProviderVoiceID: "stub-voice", DisplayName: "测试", Label: "测试音色"},
	}, nil
}

func (stubSpeech) SynthesizeToFile(_ context.Context, _, _ string, _ float64, path string) error {
	return os.WriteFile(path, []byte("stub-audio"), 0644)
}

func (stubSpeech) Close() error { return nil }

func newTestServer(t *testing.T, primary, secondary translate.Backend) *Server {
	t.Helper()

	engine, err := translate.NewEngine(translate.EngineConfig{
		Primary:   primary,
		Secondary: secondary,
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	provider := tts.NewProvider(func() (tts.SpeechBackend, error) {
		return stubSpeech{}, nil
	}, "1")

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open failed: %v", err)
	}

	srv, err := New(config.ServerConfig{
		Addr:     ":0",
		AudioDir: t.TempDir(),
	}, engine, provider, store, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
		provider.Shutdown()
		store.Close()
	})
	return srv
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleVoices(t *testing.T) {
	srv := newTestServer(t, &stubTranslator{name: "p", out: "你好"}, &stubTranslator{name: "s"})

	req := httptest.NewRequest(http.MethodGet, "/api/voices", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}

	var voices []tts.Voice
	if err := json.Unmarshal(rec.Body.Bytes(), &voices); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(voices) != 1 || voices[0].ID != "1" {
		t.Errorf("unexpected voices: %+v", voices)
	}
}

func TestHandleConvert_Success(t *testing.T) {
	srv := newTestServer(t, &stubTranslator{name: "p", out: "你好世界"}, &stubTranslator{name: "s"})
	router := srv.Router()

	rec := postJSON(t, router, "/api/convert", convertRequest{Text: "สวัสดีชาวโลก", Voice: "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Chinese != "你好世界" {
		t.Errorf("Chinese: got %q", resp.Chinese)
	}
	if resp.Translator != "p" {
		t.Errorf("Translator: got %q", resp.Translator)
	}
	if !strings.HasPrefix(resp.AudioURL, "/audio/") || !strings.HasSuffix(resp.AudioURL, ".mp3") {
		t.Errorf("AudioURL: got %q", resp.AudioURL)
	}
	if resp.Pinyin == "" {
		t.Error("Pinyin should not be empty")
	}

	// 落盘文件可以通过静态路由取回
	req := httptest.NewRequest(http.MethodGet, resp.AudioURL, nil)
	fileRec := httptest.NewRecorder()
	router.ServeHTTP(fileRec, req)
	if fileRec.Code != http.StatusOK || fileRec.Body.String() != "stub-audio" {
		t.Errorf("audio fetch: status=%d body=%q", fileRec.Code, fileRec.Body.String())
	}

	// 历史已记录
	histRec := httptest.NewRecorder()
	router.ServeHTTP(histRec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	var records []history.Record
	if err := json.Unmarshal(histRec.Body.Bytes(), &records); err != nil {
		t.Fatalf("history unmarshal failed: %v", err)
	}
	if len(records) != 1 || records[0].ChineseText != "你好世界" {
		t.Errorf("unexpected history: %+v", records)
	}
}

func TestHandleConvert_EmptyText(t *testing.T) {
	srv := newTestServer(t, &stubTranslator{name: "p", out: "x"}, &stubTranslator{name: "s"})

	rec := postJSON(t, srv.Router(), "/api/convert", convertRequest{Text: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleConvert_TranslationFailureNamesStage(t *testing.T) {
	failing := errors.New("backend down")
	srv := newTestServer(t,
		&stubTranslator{name: "p", err: failing},
		&stubTranslator{name: "s", err: failing})

	rec := postJSON(t, srv.Router(), "/api/convert", convertRequest{Text: "ล้มเหลว"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp["stage"] != "translation" {
		t.Errorf("stage: got %q, want translation", resp["stage"])
	}
}

func TestAsyncTranslateEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubTranslator{name: "p", out: "异步结果"}, &stubTranslator{name: "s"})
	router := srv.Router()

	// 未提交前取结果 -> 404
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/translate/result", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("result before submit: got %d, want 404", rec.Code)
	}

	// 提交
	rec = postJSON(t, router, "/api/translate", map[string]string{"text": "ข้อความ"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit: got %d, body: %s", rec.Code, rec.Body.String())
	}

	// 取结果
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/translate/result?timeout=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("result: got %d, body: %s", rec.Code, rec.Body.String())
	}

	var result translate.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if result.Text != "异步结果" {
		t.Errorf("Text: got %q", result.Text)
	}

	// 完成后状态查询
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/translate/status", nil))
	var status map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !status["done"] {
		t.Error("status should report done after result retrieved")
	}
}
