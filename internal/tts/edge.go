package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/luoxin627/taihua/internal/logger"
)

// edgeVoices 中文音色清单。Edge TTS 没有能力查询接口，
// 这里固化一批 zh-CN 神经网络音色，顺序即目录编号顺序。
var edgeVoices = []Capability{
	{ProviderVoiceID: "zh-CN-XiaoxiaoNeural", DisplayName: "晓晓", Label: "女声·温暖"},
	{ProviderVoiceID: "zh-CN-XiaoyiNeural", DisplayName: "晓伊", Label: "女声·活泼"},
	{ProviderVoiceID: "zh-CN-YunxiaNeural", DisplayName: "云夏", Label: "女声·可爱"},
	{ProviderVoiceID: "zh-CN-YunxiNeural", DisplayName: "云希", Label: "男声·阳光"},
	{ProviderVoiceID: "zh-CN-YunjianNeural", DisplayName: "云健", Label: "男声·激情"},
	{ProviderVoiceID: "zh-CN-YunyangNeural", DisplayName: "云扬", Label: "男声·专业"},
}

// EdgeBackend 使用微软 Edge TTS 实现语音合成。
// 免费无需密钥，输出 MP3。
type EdgeBackend struct{}

var _ SpeechBackend = (*EdgeBackend)(nil)

// NewEdgeBackend 创建 Edge TTS 后端。
func NewEdgeBackend() *EdgeBackend {
	return &EdgeBackend{}
}

// Name 实现 SpeechBackend 接口。
func (e *EdgeBackend) Name() string { return "edge-tts" }

// Format 实现 SpeechBackend 接口。
func (e *EdgeBackend) Format() string { return "mp3" }

// ListCapabilities 实现 SpeechBackend 接口，返回固化的 zh-CN 音色清单。
func (e *EdgeBackend) ListCapabilities(_ context.Context) ([]Capability, error) {
	out := make([]Capability, len(edgeVoices))
	copy(out, edgeVoices)
	return out, nil
}

// SynthesizeToFile 实现 SpeechBackend 接口。
// 通过 edge-tts-go 流式获取 MP3 音频块并写入 path。
// edge-tts-go 未暴露语速参数，speed 偏离 1.0 时仅记录日志。
func (e *EdgeBackend) SynthesizeToFile(ctx context.Context, text, providerVoiceID string, speed float64, path string) error {
	if speed != 1.0 {
		logger.Debugf("[tts] edge-tts 不支持语速调节，忽略 speed=%.2f", speed)
	}

	comm, err := edge.NewCommunicate(text, edge.WithVoice(providerVoiceID))
	if err != nil {
		return fmt.Errorf("edge-tts 创建实例失败: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return fmt.Errorf("edge-tts 开始流式合成失败: %w", err)
	}

	// Stream() 返回的 map 中，type=="audio" 的条目包含音频数据
	var mp3Buf bytes.Buffer
	for msg := range ch {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
			if data, ok := msg["data"].([]byte); ok {
				mp3Buf.Write(data)
			}
		}
	}

	if mp3Buf.Len() == 0 {
		return fmt.Errorf("edge-tts 未收到音频数据")
	}

	logger.Debugf("[tts] edge-tts: 收到 %d 字节 MP3 数据", mp3Buf.Len())
	if err := os.WriteFile(path, mp3Buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("写入音频文件失败: %w", err)
	}
	return nil
}

// Close 实现 SpeechBackend 接口。Edge TTS 按请求建连，无常驻资源。
func (e *EdgeBackend) Close() error { return nil }
