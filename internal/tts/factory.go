package tts

import (
	"fmt"

	"github.com/luoxin627/taihua/internal/config"
)

// NewProviderFromConfig 根据配置选择后端并返回懒加载的 Provider。
// 这里只绑定工厂函数，真正的后端获取推迟到第一次使用。
func NewProviderFromConfig(cfg config.TTSConfig) (*Provider, error) {
	var factory Factory

	switch cfg.Engine {
	case "edge":
		factory = func() (SpeechBackend, error) {
			return NewEdgeBackend(), nil
		}
	case "tencent":
		tc := cfg.Tencent
		factory = func() (SpeechBackend, error) {
			return NewTencentBackend(tc.SecretID, tc.SecretKey, tc.Region)
		}
	case "sherpa":
		sc := cfg.Sherpa
		factory = func() (SpeechBackend, error) {
			return NewSherpaBackend(sc.ModelDir, sc.NumThreads)
		}
	default:
		return nil, fmt.Errorf("不支持的 TTS 引擎: %s", cfg.Engine)
	}

	return NewProvider(factory, cfg.DefaultVoice), nil
}
