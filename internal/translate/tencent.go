package translate

import (
	"context"
	"fmt"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"

	"github.com/luoxin627/taihua/internal/logger"
)

// TencentBackend 腾讯云机器翻译后端。
// 单次调用开销小，适合短文本，作为主后端使用。
type TencentBackend struct {
	client *tmt.Client
}

var _ Backend = (*TencentBackend)(nil)

// NewTencentBackend 创建腾讯云翻译后端。
func NewTencentBackend(secretID, secretKey, region string) (*TencentBackend, error) {
	if secretID == "" || secretKey == "" {
		return nil, fmt.Errorf("腾讯云翻译需要 SecretID 和 SecretKey")
	}
	if region == "" {
		region = "ap-guangzhou"
	}

	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "tmt.tencentcloudapi.com"

	client, err := tmt.NewClient(credential, region, cpf)
	if err != nil {
		return nil, fmt.Errorf("创建翻译客户端失败: %w", err)
	}

	logger.Infof("[translate] 腾讯云翻译后端已初始化 (region=%s)", region)
	return &TencentBackend{client: client}, nil
}

// Name 实现 Backend 接口。
func (t *TencentBackend) Name() string { return "tencent-tmt" }

// Translate 实现 Backend 接口，调用文本翻译 API（th -> zh）。
func (t *TencentBackend) Translate(ctx context.Context, text string) (string, error) {
	request := tmt.NewTextTranslateRequest()
	request.SourceText = common.StringPtr(text)
	request.Source = common.StringPtr("th")
	request.Target = common.StringPtr("zh")
	request.ProjectId = common.Int64Ptr(0)

	response, err := t.client.TextTranslateWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("腾讯云翻译请求失败: %w", err)
	}

	if response.Response == nil || response.Response.TargetText == nil {
		return "", fmt.Errorf("腾讯云翻译响应为空")
	}

	result := *response.Response.TargetText
	logger.Debugf("[translate] 腾讯云翻译完成: %d 字符 -> %d 字符",
		len([]rune(text)), len([]rune(result)))
	return result, nil
}
