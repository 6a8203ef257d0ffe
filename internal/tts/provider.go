package tts

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/luoxin627/taihua/internal/audio"
	"github.com/luoxin627/taihua/internal/logger"
)

// Factory 创建语音后端。获取代价可能很高（加载模型、建连），
// Provider 推迟到第一次用到时才调用。
type Factory func() (SpeechBackend, error)

// Provider 语音合成服务。
// 后端资源懒加载：首次 Voices/ResolveVoice/Synthesize 触发一次获取，
// 获取失败不会被缓存，下次调用重新尝试。Shutdown 后再次使用会重新获取。
// 所有状态归实例所有，多个 Provider 可带不同配置共存。
type Provider struct {
	mu           sync.Mutex
	factory      Factory
	backend      SpeechBackend // nil 表示未获取
	voices       []Voice
	defaultVoice string
}

// NewProvider 创建合成服务，不触发后端获取。
// defaultVoice 是请求未指定或音色编号无效时使用的目录键，空则用 "1"。
func NewProvider(factory Factory, defaultVoice string) *Provider {
	if defaultVoice == "" {
		defaultVoice = "1"
	}
	return &Provider{factory: factory, defaultVoice: defaultVoice}
}

// acquire 获取后端并构建音色目录，已获取时直接返回。调用方必须持有 p.mu。
func (p *Provider) acquire(ctx context.Context) error {
	if p.backend != nil {
		return nil
	}

	backend, err := p.factory()
	if err != nil {
		return &Error{Kind: KindAcquireFailed, Err: err}
	}

	caps, err := backend.ListCapabilities(ctx)
	if err != nil {
		backend.Close()
		return &Error{Kind: KindAcquireFailed, Err: err}
	}
	if len(caps) == 0 {
		backend.Close()
		return &Error{Kind: KindAcquireFailed, Err: fmt.Errorf("后端 %s 未上报任何音色", backend.Name())}
	}

	// 按上报顺序编号 "1".."N"，本次获取内保持稳定
	voices := make([]Voice, len(caps))
	for i, c := range caps {
		voices[i] = Voice{
			ID:              strconv.Itoa(i + 1),
			DisplayName:     c.DisplayName,
			ProviderVoiceID: c.ProviderVoiceID,
			Label:           c.Label,
		}
	}

	p.backend = backend
	p.voices = voices
	logger.Infof("[tts] 后端 %s 已就绪，共 %d 个音色", backend.Name(), len(voices))
	return nil
}

// Voices 返回音色目录，首次调用触发后端获取。
func (p *Provider) Voices(ctx context.Context) ([]Voice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acquire(ctx); err != nil {
		return nil, err
	}

	out := make([]Voice, len(p.voices))
	copy(out, p.voices)
	return out, nil
}

// ResolveVoice 按目录键查找音色。找不到时 ok 为 false，不报错。
func (p *Provider) ResolveVoice(ctx context.Context, id string) (Voice, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acquire(ctx); err != nil {
		return Voice{}, false, err
	}
	v, ok := p.lookup(id)
	return v, ok, nil
}

// lookup 在目录中查找键。调用方必须持有 p.mu。
func (p *Provider) lookup(id string) (Voice, bool) {
	for _, v := range p.voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// Synthesize 将中文文本合成为音频。
// 空文本直接报错，不触碰后端；无效音色编号回退默认音色；
// 语速非法值回退 1.0 并截断到 [0.5, 2.0]。
// 中间产物写入临时文件，无论成败都会清理。
// 后端调用全程串行，时长不设上限（语速/网络差异太大，交给调用方 ctx 控制）。
func (p *Provider) Synthesize(ctx context.Context, req Request) (*Artifact, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &Error{Kind: KindEmptyText}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acquire(ctx); err != nil {
		return nil, err
	}

	voice, ok := p.lookup(req.Voice)
	if !ok {
		// 无效或未指定的音色选择降级到默认音色，不算请求失败
		if voice, ok = p.lookup(p.defaultVoice); !ok {
			voice = p.voices[0]
		}
		if req.Voice != "" {
			logger.Debugf("[tts] 音色编号 %q 无效，回退到 %s", req.Voice, voice.ID)
		}
	}

	speed := normalizeSpeed(req.Speed)

	staging, err := os.CreateTemp("", "taihua-tts-*."+p.backend.Format())
	if err != nil {
		return nil, &Error{Kind: KindSynthesisFailed, Err: fmt.Errorf("创建临时文件失败: %w", err)}
	}
	path := staging.Name()
	staging.Close()
	defer os.Remove(path)

	logger.Debugf("[tts] %s: 正在合成 %d 个字符，音色=%s，语速=%.2f",
		p.backend.Name(), len([]rune(text)), voice.DisplayName, speed)

	if err := p.backend.SynthesizeToFile(ctx, text, voice.ProviderVoiceID, speed, path); err != nil {
		return nil, &Error{Kind: KindSynthesisFailed, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindSynthesisFailed, Err: fmt.Errorf("读取合成结果失败: %w", err)}
	}
	if len(data) == 0 {
		return nil, &Error{Kind: KindSynthesisFailed, Err: fmt.Errorf("后端 %s 未产出音频数据", p.backend.Name())}
	}

	artifact := &Artifact{Data: data, Format: p.backend.Format(), Size: len(data)}
	if info, err := audio.Probe(data); err == nil {
		artifact.Duration = info.Duration
	} else {
		logger.Debugf("[tts] 音频探测失败（忽略）: %v", err)
	}

	logger.Infof("[tts] 合成完成: %.1f KB, %s", artifact.SizeKB(), artifact.Duration)
	return artifact, nil
}

// Shutdown 释放后端资源并清空音色目录。
// 可重复调用，未获取过也安全；之后的调用会重新获取。
func (p *Provider) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend == nil {
		return
	}
	if err := p.backend.Close(); err != nil {
		logger.Warnf("[tts] 关闭后端失败: %v", err)
	}
	name := p.backend.Name()
	p.backend = nil
	p.voices = nil
	logger.Infof("[tts] 后端 %s 已释放", name)
}

// normalizeSpeed 解析语速字符串。空串或非数字回退 1.0，
// 数值截断到 [0.5, 2.0]。语速问题从不导致请求失败。
func normalizeSpeed(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1.0
	}
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Debugf("[tts] 语速 %q 无法解析，使用 1.0", raw)
		return 1.0
	}
	if speed < 0.5 {
		return 0.5
	}
	if speed > 2.0 {
		return 2.0
	}
	return speed
}
