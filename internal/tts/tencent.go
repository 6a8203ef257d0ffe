package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tencenttts "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tts/v20190823"

	"github.com/luoxin627/taihua/internal/logger"
)

// tencentVoices 常用中文音色清单（VoiceType 编号见腾讯云文档）。
var tencentVoices = []Capability{
	{ProviderVoiceID: "1001", DisplayName: "智瑜", Label: "女声·知性"},
	{ProviderVoiceID: "1002", DisplayName: "智聆", Label: "女声·通用"},
	{ProviderVoiceID: "1003", DisplayName: "智美", Label: "女声·客服"},
	{ProviderVoiceID: "1017", DisplayName: "智蓉", Label: "女声·情感"},
	{ProviderVoiceID: "1018", DisplayName: "智靖", Label: "男声·情感"},
}

// TencentBackend 腾讯云 TTS 后端。
// 适用于中国大陆网络环境，输出 MP3，原生支持语速调节。
type TencentBackend struct {
	client *tencenttts.Client
}

var _ SpeechBackend = (*TencentBackend)(nil)

// NewTencentBackend 创建腾讯云 TTS 后端。
func NewTencentBackend(secretID, secretKey, region string) (*TencentBackend, error) {
	if secretID == "" || secretKey == "" {
		return nil, fmt.Errorf("腾讯云 TTS 需要 SecretID 和 SecretKey")
	}
	if region == "" {
		region = "ap-guangzhou"
	}

	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tts.tencentcloudapi.com"

	client, err := tencenttts.NewClient(credential, region, cpf)
	if err != nil {
		return nil, fmt.Errorf("创建腾讯云 TTS 客户端失败: %w", err)
	}

	logger.Infof("[tts] 腾讯云 TTS 后端已初始化 (region=%s)", region)
	return &TencentBackend{client: client}, nil
}

// Name 实现 SpeechBackend 接口。
func (t *TencentBackend) Name() string { return "tencent-tts" }

// Format 实现 SpeechBackend 接口。
func (t *TencentBackend) Format() string { return "mp3" }

// ListCapabilities 实现 SpeechBackend 接口。
func (t *TencentBackend) ListCapabilities(_ context.Context) ([]Capability, error) {
	out := make([]Capability, len(tencentVoices))
	copy(out, tencentVoices)
	return out, nil
}

// SynthesizeToFile 实现 SpeechBackend 接口。
// 响应中的音频是 Base64 编码的 MP3，解码后写入 path。
func (t *TencentBackend) SynthesizeToFile(ctx context.Context, text, providerVoiceID string, speed float64, path string) error {
	voiceType, err := strconv.ParseInt(providerVoiceID, 10, 64)
	if err != nil {
		return fmt.Errorf("无效的腾讯云音色编号 %q: %w", providerVoiceID, err)
	}

	request := tencenttts.NewTextToVoiceRequest()
	request.Text = common.StringPtr(text)
	request.SessionId = common.StringPtr(uuid.NewString())
	request.VoiceType = common.Int64Ptr(voiceType)
	request.Codec = common.StringPtr("mp3")
	// 腾讯云语速取值 [-2, 6]，0 为正常；倍率 [0.5, 2.0] 线性映射过去
	request.Speed = common.Float64Ptr((speed - 1.0) * 2.0)
	request.Volume = common.Float64Ptr(5.0)

	response, err := t.client.TextToVoiceWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("腾讯云 TTS 合成失败: %w", err)
	}

	if response.Response == nil || response.Response.Audio == nil {
		return fmt.Errorf("腾讯云 TTS 未返回音频数据")
	}

	mp3Data, err := base64.StdEncoding.DecodeString(*response.Response.Audio)
	if err != nil {
		return fmt.Errorf("Base64 解码失败: %w", err)
	}

	logger.Debugf("[tts] 腾讯云 TTS: 收到 %d 字节 MP3 数据", len(mp3Data))
	if err := os.WriteFile(path, mp3Data, 0644); err != nil {
		return fmt.Errorf("写入音频文件失败: %w", err)
	}
	return nil
}

// Close 实现 SpeechBackend 接口。HTTP 客户端无需显式释放。
func (t *TencentBackend) Close() error { return nil }
