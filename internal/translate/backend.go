package translate

import "context"

// Backend 定义泰译中翻译后端接口。
type Backend interface {
	// Name 返回后端的可读名称，用于日志和诊断信息。
	Name() string
	// Translate 将泰语文本翻译为简体中文。
	Translate(ctx context.Context, text string) (string, error)
}

// Route 标识一次翻译由哪个后端产出、是否走了兜底路径。
type Route string

const (
	// RouteEmpty 输入为空，未调用任何后端。
	RouteEmpty Route = "empty"
	// RoutePrimary 短文本路径，主后端直接成功。
	RoutePrimary Route = "primary"
	// RoutePrimaryFallback 长文本路径，次后端失败后主后端兜底成功。
	RoutePrimaryFallback Route = "primary_fallback"
	// RouteSecondary 长文本路径，次后端直接成功。
	RouteSecondary Route = "secondary"
	// RouteSecondaryFallback 短文本路径，主后端失败后次后端兜底成功。
	RouteSecondaryFallback Route = "secondary_fallback"
)

// Result 是一次翻译的结果，产出后不再修改。
type Result struct {
	// Text 翻译结果（中文）。
	Text string `json:"text"`
	// Route 产出路径。
	Route Route `json:"route"`
	// Engine 实际产出结果的后端名称，空输入时为空。
	Engine string `json:"engine,omitempty"`
}
