package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const emptyJSONBody = "{}"

// Handler 调用中间件。返回非 nil 结果或错误时短路实际调用,
// 两者皆为 nil 时继续执行后续中间件与实际调用
type Handler func(ctx context.Context, a *Action) (*Result, error)

// RateLimit 基于令牌桶的限速中间件
func RateLimit(frequency float64, bucketSize int) Handler {
	limiter := rate.NewLimiter(rate.Limit(frequency), bucketSize)
	return func(ctx context.Context, _ *Action) (*Result, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// Options 客户端构造参数
type Options struct {
	// Host API 服务器地址, 如 "http://127.0.0.1:5700"
	Host string
	// AccessToken 不为空时以 Authorization: Bearer 头上报
	AccessToken string
	// Timeout 单次调用超时, 0 使用默认值 15s
	Timeout time.Duration
	// HTTPClient 注入自定义传输层, 为 nil 时按 Timeout 构造
	HTTPClient *http.Client
	// DisableEmptyBodyAsObject 参数为 nil 时默认编码为 "{}",
	// 置为 true 则发送空请求体
	DisableEmptyBodyAsObject bool
}

// Client 动作调用管线。多个 goroutine 并发调用是安全的,
// 每次调用持有独立的请求与响应状态
type Client struct {
	host     string
	token    string
	cli      *http.Client
	handlers []Handler

	emptyBodyAsObject bool
	closed            atomic.Bool
}

// NewClient 构造动作调用客户端
func NewClient(opts Options) *Client {
	cli := opts.HTTPClient
	if cli == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Second * 15
		}
		cli = &http.Client{Timeout: timeout}
	}
	return &Client{
		host:              strings.TrimSuffix(opts.Host, "/"),
		token:             opts.AccessToken,
		cli:               cli,
		emptyBodyAsObject: !opts.DisableEmptyBodyAsObject,
	}
}

// Use add handlers to the caller
func (c *Client) Use(handlers ...Handler) {
	c.handlers = append(c.handlers, handlers...)
}

// Close 关闭客户端。关闭后的调用快速失败而不是悬挂
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.cli.CloseIdleConnections()
	}
}

// CallAction 执行一次动作调用并返回响应包装。
// retcode 不为成功时不视为 error, 由调用方检查;
// 传输层与包装解析失败返回 error
func (c *Client) CallAction(ctx context.Context, a Action) (*Result, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	for _, fn := range c.handlers {
		ret, err := fn(ctx, &a)
		if ret != nil || err != nil {
			return ret, err
		}
	}
	return c.call(ctx, a)
}

// Call 执行一次动作调用并将响应数据解析到 out。
// out 为 nil 表示该动作没有响应数据
func (c *Client) Call(ctx context.Context, a Action, out any) error {
	ret, err := c.CallAction(ctx, a)
	if err != nil {
		return err
	}
	return ret.Into(out)
}

func (c *Client) call(ctx context.Context, a Action) (*Result, error) {
	var body []byte
	var encoded string
	if a.method() == http.MethodGet {
		if a.Body != nil {
			return nil, errors.New("api: GET action must not carry a body")
		}
	} else {
		var err error
		body, encoded, err = c.encodeBody(a.Body)
		if err != nil {
			return nil, err
		}
	}

	target := c.host + "/" + url.PathEscape(a.path())
	req, err := http.NewRequestWithContext(ctx, a.method(), target, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debugf("API [%v] ==> %v, body: %s", a.Name, target, encoded)

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "call action %s", a.Name)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s", a.Name)
	}

	log.Debugf("API [%v] <== status: %v, body: %s", a.Name, resp.StatusCode, raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return decodeResult(raw)
}

// encodeBody 编码请求体。优先级:
// 已编码内容原样传递 > JSON 序列化 > 原值文本兜底
func (c *Client) encodeBody(body any) (data []byte, display string, err error) {
	switch b := body.(type) {
	case nil:
		if c.emptyBodyAsObject {
			return []byte(emptyJSONBody), emptyJSONBody, nil
		}
		return nil, "", nil
	case json.RawMessage:
		return b, string(b), nil
	case []byte:
		return b, string(b), nil
	case string:
		return []byte(b), b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			// 序列化失败时退回原值文本, 由服务端报告传输层错误
			s := fmt.Sprint(b)
			return []byte(s), s, nil
		}
		return data, string(data), nil
	}
}
