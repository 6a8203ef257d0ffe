package tts

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/luoxin627/taihua/internal/logger"
)

// SherpaBackend 使用 sherpa-onnx 离线 VITS 模型实现语音合成。
// 模型加载耗时且占内存，是懒加载收益最大的后端；
// 音色目录来自模型自身的说话人数量，输出 WAV。
type SherpaBackend struct {
	tts         *sherpa.OfflineTts
	numSpeakers int
}

var _ SpeechBackend = (*SherpaBackend)(nil)

// NewSherpaBackend 加载 modelDir 下的 VITS 中文模型
// （model.onnx、lexicon.txt、tokens.txt）。
func NewSherpaBackend(modelDir string, numThreads int) (*SherpaBackend, error) {
	if modelDir == "" {
		return nil, fmt.Errorf("sherpa TTS 需要模型目录")
	}
	if numThreads <= 0 {
		numThreads = 2
	}

	config := sherpa.OfflineTtsConfig{}
	config.Model.Vits.Model = filepath.Join(modelDir, "model.onnx")
	config.Model.Vits.Lexicon = filepath.Join(modelDir, "lexicon.txt")
	config.Model.Vits.Tokens = filepath.Join(modelDir, "tokens.txt")
	config.Model.NumThreads = numThreads
	config.Model.Provider = "cpu"
	config.MaxNumSentences = 1

	logger.Infof("[tts] 正在加载 sherpa VITS 模型: %s", modelDir)
	t := sherpa.NewOfflineTts(&config)
	if t == nil {
		return nil, fmt.Errorf("加载 sherpa VITS 模型失败: %s", modelDir)
	}

	numSpeakers := t.NumSpeakers()
	if numSpeakers <= 0 {
		numSpeakers = 1
	}
	logger.Infof("[tts] sherpa 模型已加载，说话人数量: %d", numSpeakers)

	return &SherpaBackend{tts: t, numSpeakers: numSpeakers}, nil
}

// Name 实现 SpeechBackend 接口。
func (s *SherpaBackend) Name() string { return "sherpa-vits" }

// Format 实现 SpeechBackend 接口。
func (s *SherpaBackend) Format() string { return "wav" }

// ListCapabilities 实现 SpeechBackend 接口。
// 目录按模型说话人 ID 顺序生成。
func (s *SherpaBackend) ListCapabilities(_ context.Context) ([]Capability, error) {
	caps := make([]Capability, s.numSpeakers)
	for i := 0; i < s.numSpeakers; i++ {
		caps[i] = Capability{
			ProviderVoiceID: strconv.Itoa(i),
			DisplayName:     fmt.Sprintf("说话人 %d", i),
			Label:           "本地模型音色",
		}
	}
	return caps, nil
}

// SynthesizeToFile 实现 SpeechBackend 接口。
// 推理在本地 CPU 上同步执行，不响应 ctx 取消。
func (s *SherpaBackend) SynthesizeToFile(_ context.Context, text, providerVoiceID string, speed float64, path string) error {
	sid, err := strconv.Atoi(providerVoiceID)
	if err != nil || sid < 0 || sid >= s.numSpeakers {
		return fmt.Errorf("无效的说话人编号 %q", providerVoiceID)
	}

	generated := s.tts.Generate(text, sid, float32(speed))
	if generated == nil || len(generated.Samples) == 0 {
		return fmt.Errorf("sherpa 未产出音频样本")
	}

	logger.Debugf("[tts] sherpa: 生成 %d 个样本，采样率 %d Hz",
		len(generated.Samples), generated.SampleRate)

	if ok := generated.Save(path); !ok {
		return fmt.Errorf("写入 WAV 文件失败: %s", path)
	}
	return nil
}

// Close 实现 SpeechBackend 接口，释放模型。
func (s *SherpaBackend) Close() error {
	if s.tts != nil {
		sherpa.DeleteOfflineTts(s.tts)
		s.tts = nil
	}
	return nil
}
