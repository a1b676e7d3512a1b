package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gocq/onebot11/event"
)

// ErrRetryExhausted 重连预算耗尽
var ErrRetryExhausted = errors.New("event session: retry budget exhausted")

// closeGrace 关闭握手的等待上限
const closeGrace = 5 * time.Second

// dialFunc 建立一条事件连接, 测试中可注入替身
type dialFunc func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error)

func defaultDial(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	return conn, err
}

// SessionOptions 事件会话构造参数
type SessionOptions struct {
	// URL 事件推送地址
	URL string
	// AccessToken 不为空时以 Authorization: Bearer 头鉴权
	AccessToken string
	// MaxRetries 连接失败后的重试预算, 不大于 0 表示不限。
	// 预算为 N 时总共尝试 N+1 次
	MaxRetries int
	// RetryInterval 两次尝试之间的间隔, 0 表示立即重试
	RetryInterval time.Duration
	// Handler 事件回调, 在会话 goroutine 内按到达顺序依次调用
	Handler func(event.Event)
}

// Session 事件会话。持有一条到事件服务器的长连接,
// 断开后按预算重试, 将收到的每帧内容解析分发给回调
type Session struct {
	url           string
	token         string
	maxRetries    int
	retryInterval time.Duration
	handler       func(event.Event)
	dial          dialFunc
}

// NewSession 构造事件会话
func NewSession(opts SessionOptions) *Session {
	interval := opts.RetryInterval
	if interval < 0 {
		interval = 0
	}
	handler := opts.Handler
	if handler == nil {
		handler = func(event.Event) {}
	}
	return &Session{
		url:           opts.URL,
		token:         opts.AccessToken,
		maxRetries:    opts.MaxRetries,
		retryInterval: interval,
		handler:       handler,
		dial:          defaultDial,
	}
}

// Run 维持事件连接直到 ctx 取消或重试预算耗尽。
// 取消返回 ctx.Err(), 预算耗尽返回包含末次失败原因的 ErrRetryExhausted。
// 连接成功后重试计数清零, 每次断开重新获得完整预算
func (s *Session) Run(ctx context.Context) error {
	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	retries := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := s.dial(ctx, s.url, header)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			retries++
			if s.maxRetries > 0 && retries > s.maxRetries {
				return errors.Wrapf(ErrRetryExhausted, "connect to %s: %v", s.url, err)
			}
			log.Warnf("连接事件服务器 %v 失败: %v, %v 后重试", s.url, err, s.retryInterval)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryInterval):
			}
			continue
		}

		log.Infof("已连接到事件服务器 %v", s.url)
		retries = 0
		err = s.serve(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("事件连接断开: %v, 即将重连", err)
	}
}

// serve 在单条连接上收取事件帧, 直到连接断开或 ctx 取消。
// 取消时先发送关闭帧完成握手, 超过宽限时间后强制断开
func (s *Session) serve(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(closeGrace)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			_ = conn.SetReadDeadline(deadline)
		case <-done:
		}
	}()

	for {
		typ, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}
		s.handler(event.Resolve(payload))
	}
}
