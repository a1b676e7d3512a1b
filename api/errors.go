package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClientClosed 客户端已关闭后继续调用时返回
var ErrClientClosed = errors.New("api: client is closed")

// TransportError HTTP 状态码不为 2xx 时的传输级错误, 不包含响应包装
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: unexpected http status %d: %s", e.StatusCode, e.Body)
}

// Error 动作调用返回了失败的 retcode
type Error struct {
	Retcode int
	Status  string
	Raw     []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: action failed: retcode=%d, status=%s, raw=%s", e.Retcode, e.Status, e.Raw)
}

// AsyncError 动作被异步受理(retcode=1), 结果不可知。
// 调用方需要响应数据时以错误形式上抛, 由调用方决定是否视为成功
type AsyncError struct {
	Status string
	Raw    []byte
}

func (e *AsyncError) Error() string {
	return fmt.Sprintf("api: action accepted asynchronously, data is indeterminate: status=%s", e.Status)
}
