package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocq/onebot11/event"
)

func TestSessionRetryBudget(t *testing.T) {
	var attempts atomic.Int32
	s := NewSession(SessionOptions{
		URL:           "ws://127.0.0.1:1/event",
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	})
	s.dial = func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
		attempts.Add(1)
		return nil, errors.New("dial refused")
	}

	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrRetryExhausted)
	// 预算为 N 时总共尝试 N+1 次
	assert.Equal(t, int32(3), attempts.Load())
}

func TestSessionZeroRetriesUnlimited(t *testing.T) {
	// 预算为零值时不设上限, 直到取消为止
	var attempts atomic.Int32
	s := NewSession(SessionOptions{URL: "ws://127.0.0.1:1/event", MaxRetries: 0})
	s.dial = func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
		attempts.Add(1)
		return nil, errors.New("dial refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for attempts.Load() < 10 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
	assert.GreaterOrEqual(t, attempts.Load(), int32(10))
}

func TestSessionRetryIntervalZero(t *testing.T) {
	// 间隔为零表示立即重试, 不落入默认值
	s := NewSession(SessionOptions{URL: "ws://127.0.0.1:1/event", MaxRetries: 5})
	assert.Equal(t, time.Duration(0), s.retryInterval)

	var attempts atomic.Int32
	s.dial = func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
		attempts.Add(1)
		return nil, errors.New("dial refused")
	}

	start := time.Now()
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(6), attempts.Load())
	assert.Less(t, time.Since(start), time.Second)
}

func TestSessionCancelDuringRetry(t *testing.T) {
	s := NewSession(SessionOptions{
		URL:           "ws://127.0.0.1:1/event",
		MaxRetries:    -1,
		RetryInterval: time.Hour,
	})
	s.dial = func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
		return nil, errors.New("dial refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		// 取消与预算耗尽可区分
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrRetryExhausted)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
}

func newEventServer(t *testing.T, payloads []string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(p)); err != nil {
				return
			}
		}
		// 等待客户端关闭握手
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionReceivesEventsInOrder(t *testing.T) {
	payloads := []string{
		`{"time":1,"self_id":2,"post_type":"meta_event","meta_event_type":"lifecycle","sub_type":"connect"}`,
		`{"time":2,"self_id":2,"post_type":"message","message_type":"private","sub_type":"friend","user_id":3,"message":[{"type":"text","data":{"text":"hi"}}]}`,
	}
	srv := newEventServer(t, payloads)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []event.Event
	s := NewSession(SessionOptions{
		URL:        "ws" + strings.TrimPrefix(srv.URL, "http") + "/event",
		MaxRetries: 0,
		Handler: func(ev event.Event) {
			got = append(got, ev)
			if len(got) == len(payloads) {
				cancel()
			}
		},
	})

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 2)
	_, ok := got[0].(*event.Lifecycle)
	assert.True(t, ok)
	msg, ok := got[1].(*event.PrivateMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Message.ExtractPlainText())
}

func TestSessionAuthorizationHeader(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(SessionOptions{
		URL:         "ws" + strings.TrimPrefix(srv.URL, "http"),
		AccessToken: "secret",
		MaxRetries:  0,
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case auth := <-gotAuth:
		assert.Equal(t, "Bearer secret", auth)
	case <-time.After(5 * time.Second):
		t.Fatal("no connection received")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
}

func TestSessionReconnectAfterDrop(t *testing.T) {
	// 首条连接由服务端直接切断, 会话应当重连
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := conns.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if n == 1 {
			_ = conn.UnderlyingConn().Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	addr := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSession(SessionOptions{URL: addr, MaxRetries: -1, RetryInterval: 10 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// 断开后重新建立连接
	require.Eventually(t, func() bool { return conns.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
}
