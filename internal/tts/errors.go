package tts

import "errors"

// ErrorKind 合成错误类别。
type ErrorKind int

const (
	// KindEmptyText 合成文本为空。
	KindEmptyText ErrorKind = iota
	// KindAcquireFailed 后端资源获取失败，下次调用会重新尝试。
	KindAcquireFailed
	// KindSynthesisFailed 后端合成调用失败。
	KindSynthesisFailed
)

// Error 合成失败错误。
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmptyText:
		return "合成文本不能为空"
	case KindAcquireFailed:
		return "语音后端初始化失败: " + e.Err.Error()
	default:
		return "语音合成失败: " + e.Err.Error()
	}
}

// Unwrap 暴露底层原因。
func (e *Error) Unwrap() error {
	return e.Err
}

// IsEmptyText 判断错误是否为空文本。
func IsEmptyText(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindEmptyText
}

// IsAcquireFailed 判断错误是否为后端资源获取失败。
func IsAcquireFailed(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindAcquireFailed
}
