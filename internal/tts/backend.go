package tts

import (
	"context"
	"time"
)

// Capability 后端上报的一个可用音色。
type Capability struct {
	// ProviderVoiceID 后端原生音色标识，如 "zh-CN-XiaoxiaoNeural" 或 "1001"。
	ProviderVoiceID string
	// DisplayName 音色名称。
	DisplayName string
	// Label 给用户看的描述。
	Label string
}

// SpeechBackend 定义语音合成后端接口。
// 实现者不要求可并发调用，Provider 会做串行化。
type SpeechBackend interface {
	// Name 返回后端的可读名称。
	Name() string
	// Format 返回合成产物的音频格式（mp3 或 wav）。
	Format() string
	// ListCapabilities 按后端固有顺序返回可用音色。
	ListCapabilities(ctx context.Context) ([]Capability, error)
	// SynthesizeToFile 将中文文本合成为音频并写入 path。
	// speed 为语速倍率，调用方保证在 [0.5, 2.0] 内。
	SynthesizeToFile(ctx context.Context, text, providerVoiceID string, speed float64, path string) error
	// Close 释放后端资源。
	Close() error
}

// Voice 目录中的一个可选音色。目录键在一次资源获取内保持稳定。
type Voice struct {
	// ID 目录键，"1"、"2" …，按后端上报顺序编号。
	ID string `json:"id"`
	// DisplayName 音色名称。
	DisplayName string `json:"name"`
	// ProviderVoiceID 后端原生音色标识。
	ProviderVoiceID string `json:"-"`
	// Label 给用户看的描述。
	Label string `json:"label"`
}

// Request 一次合成请求。
type Request struct {
	// Text 待合成的中文文本，不能为空。
	Text string `json:"text"`
	// Voice 目录键，空或无效时回退到默认音色。
	Voice string `json:"voice"`
	// Speed 语速倍率的字符串形式，直接透传用户输入。
	// 非数字回退 1.0，数值截断到 [0.5, 2.0]。
	Speed string `json:"speed"`
}

// Artifact 一次合成的产物，返回后归调用方所有，Provider 不保留引用。
type Artifact struct {
	// Data 音频字节。
	Data []byte
	// Format 音频格式（mp3 或 wav）。
	Format string
	// Size 字节数。
	Size int
	// Duration 音频时长，探测失败时为 0。
	Duration time.Duration
}

// SizeKB 返回产物大小（KB），用于展示。
func (a *Artifact) SizeKB() float64 {
	return float64(a.Size) / 1024.0
}
