package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/luoxin627/taihua/internal/logger"
)

// Record 一次泰译中转换的历史记录。
type Record struct {
	ID          string    `json:"id"`
	ThaiText    string    `json:"thai"`
	ChineseText string    `json:"chinese"`
	Route       string    `json:"route"`
	Engine      string    `json:"engine"`
	Voice       string    `json:"voice"`
	AudioFile   string    `json:"audio_file"`
	SizeBytes   int       `json:"size_bytes"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store 转换历史的 SQLite 存储。
type Store struct {
	db   *sql.DB
	path string
}

// Open 打开或创建历史数据库并完成建表。
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = "./taihua.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// WAL 模式并发性能更好
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Infof("[history] 历史数据库已打开: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		thai_text TEXT NOT NULL,
		chinese_text TEXT NOT NULL,
		route TEXT NOT NULL,
		engine TEXT DEFAULT '',
		voice TEXT DEFAULT '',
		audio_file TEXT DEFAULT '',
		size_bytes INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	idx := `CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`
	if _, err := s.db.Exec(idx); err != nil {
		logger.Warnf("[history] 创建索引失败: %v", err)
	}
	return nil
}

// Add 写入一条记录。ID 为空时自动生成，CreatedAt 为零值时取当前时间。
// 返回写入后的完整记录。
func (s *Store) Add(r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO conversions
			(id, thai_text, chinese_text, route, engine, voice, audio_file, size_bytes, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ThaiText, r.ChineseText, r.Route, r.Engine, r.Voice,
		r.AudioFile, r.SizeBytes, r.DurationMs, r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("写入历史记录失败: %w", err)
	}
	return r, nil
}

// Recent 按时间倒序返回最近 limit 条记录。
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, thai_text, chinese_text, route, engine, voice, audio_file, size_bytes, duration_ms, created_at
		FROM conversions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询历史记录失败: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ThaiText, &r.ChineseText, &r.Route, &r.Engine,
			&r.Voice, &r.AudioFile, &r.SizeBytes, &r.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("读取历史记录失败: %w", err)
		}
		// RFC3339 文本排序即时间排序，解析失败时保留零值
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count 返回记录总数。
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM conversions").Scan(&n); err != nil {
		return 0, fmt.Errorf("统计历史记录失败: %w", err)
	}
	return n, nil
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
