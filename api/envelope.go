// Package api 实现 OneBot v11 动作调用管线: 动作描述、响应包装与 HTTP 调用。
package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// 协议定义的返回码
//
// https://github.com/botuniverse/onebot-11/blob/master/api/README.md
const (
	// RetcodeSuccess status 为 ok, 表示操作成功
	RetcodeSuccess = 0
	// RetcodeAsync status 为 async, 表示请求已提交异步处理,
	// 具体成功或失败将无法获知
	RetcodeAsync = 1
)

// Result 每个动作响应的统一包装 {"retcode": int, "status": string, "data": T}
type Result struct {
	Retcode int             `json:"retcode"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`

	raw []byte
}

// OK 判断本次调用是否成功, retcode 为准, status 仅作参考
func (r *Result) OK() bool {
	return r.Retcode == RetcodeSuccess
}

// Async 判断本次调用是否为异步受理, 此时结果不可知, 不代表失败
func (r *Result) Async() bool {
	return r.Retcode == RetcodeAsync
}

// Raw 返回响应的原始报文, 供诊断使用
func (r *Result) Raw() []byte {
	return r.raw
}

// setRaw 在反序列化完成后立刻附加原始报文, 此后不再修改
func (r *Result) setRaw(raw []byte) {
	if r.raw == nil {
		r.raw = raw
	}
}

// decodeResult 解析响应包装。包装格式固定, 解析失败视为硬错误
func decodeResult(body []byte) (*Result, error) {
	r := new(Result)
	if err := json.Unmarshal(body, r); err != nil {
		return nil, errors.Wrap(err, "decode result envelope")
	}
	r.setRaw(body)
	return r, nil
}

// Into 将 data 字段解析到 out。out 为 nil 表示该动作没有响应数据,
// 此时 retcode 成功且 data 缺失也视为成功
func (r *Result) Into(out any) error {
	if !r.OK() {
		if r.Async() {
			return &AsyncError{Status: r.Status, Raw: r.raw}
		}
		return &Error{Retcode: r.Retcode, Status: r.Status, Raw: r.raw}
	}
	if out == nil {
		return nil
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return errors.Errorf("api: data is null: retcode=%d, status=%s", r.Retcode, r.Status)
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return errors.Wrap(err, "decode result data")
	}
	return nil
}
