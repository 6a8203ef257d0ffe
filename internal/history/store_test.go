package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAdd_GeneratesIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	r, err := s.Add(Record{
		ThaiText:    "สวัสดี",
		ChineseText: "你好",
		Route:       "primary",
		Engine:      "tencent-tmt",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if r.ID == "" {
		t.Error("Add should generate an ID")
	}
	if r.CreatedAt.IsZero() {
		t.Error("Add should set CreatedAt")
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := s.Add(Record{
			ThaiText:    "ข้อความ",
			ChineseText: "文本",
			Route:       "primary",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	records, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Error("records should be ordered newest first")
		}
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)

	if n, err := s.Count(); err != nil || n != 0 {
		t.Fatalf("empty store: count=%d err=%v", n, err)
	}

	if _, err := s.Add(Record{ThaiText: "ก", ChineseText: "一", Route: "primary"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if n, err := s.Count(); err != nil || n != 1 {
		t.Fatalf("after add: count=%d err=%v", n, err)
	}
}

func TestRecent_RoundTripsFields(t *testing.T) {
	s := newTestStore(t)

	in := Record{
		ThaiText:    "ทดสอบ",
		ChineseText: "测试",
		Route:       "secondary_fallback",
		Engine:      "openai-llm",
		Voice:       "2",
		AudioFile:   "abc.mp3",
		SizeBytes:   2048,
		DurationMs:  1500,
	}
	if _, err := s.Add(in); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	records, err := s.Recent(1)
	if err != nil || len(records) != 1 {
		t.Fatalf("Recent: records=%d err=%v", len(records), err)
	}

	got := records[0]
	if got.ThaiText != in.ThaiText || got.ChineseText != in.ChineseText ||
		got.Route != in.Route || got.Engine != in.Engine || got.Voice != in.Voice ||
		got.AudioFile != in.AudioFile || got.SizeBytes != in.SizeBytes ||
		got.DurationMs != in.DurationMs {
		t.Errorf("record mismatch: got %+v, want %+v", got, in)
	}
}
