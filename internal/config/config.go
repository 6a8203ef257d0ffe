package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 taihua 的顶层配置结构。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Translate TranslateConfig `yaml:"translate"`
	TTS       TTSConfig       `yaml:"tts"`
	History   HistoryConfig   `yaml:"history"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AudioDir 合成结果的落盘目录，通过 /audio/ 静态访问
	AudioDir string `yaml:"audio_dir"`
}

// TranslateConfig 翻译配置。
type TranslateConfig struct {
	// ShortTextThreshold 短文本阈值（字符数）。
	// 不超过阈值的文本先走腾讯翻译，超过的先走大模型翻译。
	// 这是按两个后端的延迟/吞吐特性调出来的经验值，可按需调整。
	ShortTextThreshold int `yaml:"short_text_threshold"`

	// AwaitTimeout 异步翻译默认等待时间（秒）。
	AwaitTimeout int `yaml:"await_timeout"`

	Tencent TencentTranslateConfig `yaml:"tencent"`
	OpenAI  OpenAITranslateConfig  `yaml:"openai"`
}

// TencentTranslateConfig 腾讯云机器翻译配置。
type TencentTranslateConfig struct {
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// OpenAITranslateConfig 大模型翻译配置（OpenAI 兼容接口）。
type OpenAITranslateConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TTSConfig 语音合成配置。
type TTSConfig struct {
	Engine string `yaml:"engine"` // edge, tencent, sherpa
	// DefaultVoice 请求未指定或音色编号无效时使用的目录编号
	DefaultVoice string `yaml:"default_voice"`

	Edge    EdgeConfig       `yaml:"edge"`
	Tencent TencentTTSConfig `yaml:"tencent"`
	Sherpa  SherpaConfig     `yaml:"sherpa"`
}

// EdgeConfig Edge TTS 配置。
type EdgeConfig struct{}

// TencentTTSConfig 腾讯云 TTS 配置。
type TencentTTSConfig struct {
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// SherpaConfig sherpa-onnx 离线 TTS 配置。
type SherpaConfig struct {
	// ModelDir 包含 VITS 模型文件（model.onnx、lexicon.txt、tokens.txt）的目录
	ModelDir   string `yaml:"model_dir"`
	NumThreads int    `yaml:"num_threads"`
}

// HistoryConfig 转换历史配置。
type HistoryConfig struct {
	// Path 数据库文件路径，为空则使用 ~/.taihua/taihua.db
	Path string `yaml:"path"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${TAIHUA_TENCENT_SECRET_KEY}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.AudioDir == "" {
		cfg.Server.AudioDir = "./audio"
	}
	if cfg.Translate.ShortTextThreshold == 0 {
		cfg.Translate.ShortTextThreshold = 500
	}
	if cfg.Translate.AwaitTimeout == 0 {
		cfg.Translate.AwaitTimeout = 30
	}
	if cfg.Translate.Tencent.Region == "" {
		cfg.Translate.Tencent.Region = "ap-guangzhou"
	}
	if cfg.Translate.OpenAI.Model == "" {
		cfg.Translate.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.TTS.Engine == "" {
		cfg.TTS.Engine = "edge"
	}
	if cfg.TTS.DefaultVoice == "" {
		cfg.TTS.DefaultVoice = "1"
	}
	if cfg.TTS.Tencent.Region == "" {
		cfg.TTS.Tencent.Region = "ap-guangzhou"
	}
	if cfg.TTS.Sherpa.NumThreads == 0 {
		cfg.TTS.Sherpa.NumThreads = 2
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.History.Path == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.History.Path = home + "/.taihua/taihua.db"
		} else {
			cfg.History.Path = "./taihua.db"
		}
	} else if strings.HasPrefix(cfg.History.Path, "~/") {
		// Go 不会自动展开 ~，需要手动替换为用户主目录
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.History.Path = home + cfg.History.Path[1:]
		}
	}

	// 去除密钥两端可能的空白（环境变量展开后常见）
	cfg.Translate.Tencent.SecretID = strings.TrimSpace(cfg.Translate.Tencent.SecretID)
	cfg.Translate.Tencent.SecretKey = strings.TrimSpace(cfg.Translate.Tencent.SecretKey)
	cfg.Translate.OpenAI.APIKey = strings.TrimSpace(cfg.Translate.OpenAI.APIKey)
	cfg.TTS.Tencent.SecretID = strings.TrimSpace(cfg.TTS.Tencent.SecretID)
	cfg.TTS.Tencent.SecretKey = strings.TrimSpace(cfg.TTS.Tencent.SecretKey)
}
