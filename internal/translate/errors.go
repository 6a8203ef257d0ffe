package translate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind 翻译错误类别。
type ErrorKind int

const (
	// KindAllBackendsFailed 主备后端均失败。
	KindAllBackendsFailed ErrorKind = iota
	// KindTimeout 等待异步翻译结果超时，任务本身仍在后台运行。
	KindTimeout
	// KindNoJobSubmitted 没有已提交的异步翻译任务。
	KindNoJobSubmitted
)

// ErrJobPending 表示已有异步任务在运行中，本次提交被拒绝。
var ErrJobPending = errors.New("已有翻译任务在进行中")

// ErrEngineClosed 表示引擎已关闭，不再接受新任务。
var ErrEngineClosed = errors.New("翻译引擎已关闭")

// Error 是翻译失败的终态错误，Causes 保留各后端的原始失败原因。
type Error struct {
	Kind   ErrorKind
	Causes []error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "等待翻译结果超时"
	case KindNoJobSubmitted:
		return "没有进行中的翻译任务"
	default:
		parts := make([]string, len(e.Causes))
		for i, c := range e.Causes {
			parts[i] = c.Error()
		}
		return fmt.Sprintf("所有翻译后端均失败: %s", strings.Join(parts, "; "))
	}
}

// Unwrap 暴露底层失败原因，支持 errors.Is/As。
func (e *Error) Unwrap() []error {
	return e.Causes
}

// IsTimeout 判断错误是否为等待超时。
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindTimeout
}

// IsNoJob 判断错误是否为无任务可等待。
func IsNoJob(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindNoJobSubmitted
}
