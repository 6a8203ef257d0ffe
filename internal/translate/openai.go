package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/luoxin627/taihua/internal/logger"
)

// translateSystemPrompt 约束模型只输出译文本身。
const translateSystemPrompt = "你是专业的泰中翻译。把用户输入的泰语文本翻译成简体中文，" +
	"只输出译文，不要任何解释、注音或额外内容。"

// OpenAIBackend 通过 OpenAI 兼容的对话接口做翻译。
// 单次调用开销大但对长文本更稳，作为次后端使用。
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

var _ Backend = (*OpenAIBackend)(nil)

// NewOpenAIBackend 创建大模型翻译后端。
// apiURL 为空时使用官方地址，兼容任何 OpenAI 风格的网关。
func NewOpenAIBackend(apiURL, apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("大模型翻译需要 API Key")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}

	logger.Infof("[translate] 大模型翻译后端已初始化 (model=%s)", model)
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name 实现 Backend 接口。
func (o *OpenAIBackend) Name() string { return "openai-llm" }

// Translate 实现 Backend 接口。
func (o *OpenAIBackend) Translate(ctx context.Context, text string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("大模型翻译请求失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("大模型翻译响应为空")
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", fmt.Errorf("大模型翻译返回了空译文")
	}

	logger.Debugf("[translate] 大模型翻译完成: %d 字符 -> %d 字符",
		len([]rune(text)), len([]rune(result)))
	return result, nil
}
