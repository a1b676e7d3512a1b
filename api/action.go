package api

import "net/http"

// 动作名称后缀
//
// https://github.com/botuniverse/onebot-11/blob/master/api/README.md
const (
	// AsyncSuffix 异步调用后缀
	AsyncSuffix = "_async"
	// RateLimitedSuffix 限速调用后缀
	RateLimitedSuffix = "_rate_limited"
)

// Action 一次动作调用的完整描述。构造后不可变, 由管线消费一次后丢弃。
//
// 自定义动作与生成的动作目录在管线眼中完全等价,
// 调用方可以直接构造 Action 调用任何扩展动作。
type Action struct {
	// Name 动作名称, 如 "send_msg"
	Name string
	// Method HTTP 方法, 空值视为 POST。GET 请求不允许携带 Body
	Method string
	// Body 动作参数。
	// []byte, json.RawMessage 与 string 视为已编码内容原样传递,
	// 其他值在发送时序列化为 JSON
	Body any
	// Suffixes 追加到动作名称之后的后缀, 如 AsyncSuffix
	Suffixes []string
}

// New 构造一个 POST 动作
func New(name string) Action {
	return Action{Name: name}
}

// WithBody 返回携带参数的动作副本
func (a Action) WithBody(body any) Action {
	a.Body = body
	return a
}

// Async 返回追加异步后缀的动作副本
func (a Action) Async() Action {
	a.Suffixes = append(a.Suffixes[:len(a.Suffixes):len(a.Suffixes)], AsyncSuffix)
	return a
}

// RateLimited 返回追加限速后缀的动作副本
func (a Action) RateLimited() Action {
	a.Suffixes = append(a.Suffixes[:len(a.Suffixes):len(a.Suffixes)], RateLimitedSuffix)
	return a
}

func (a Action) method() string {
	if a.Method == "" {
		return http.MethodPost
	}
	return a.Method
}

// path 动作在 API 地址下的路径段
func (a Action) path() string {
	if len(a.Suffixes) == 0 {
		return a.Name
	}
	name := a.Name
	for _, sf := range a.Suffixes {
		name += sf
	}
	return name
}
