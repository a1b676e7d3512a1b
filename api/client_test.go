package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocq/onebot11/message"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(Options{Host: srv.URL, AccessToken: "token123"})
}

func TestCallSendMsg(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":{"message_id":1}}`))
	})

	var ret MessageIDResult
	err := cli.Call(context.Background(), SendPrivateMsg(10086, message.NewText("hello")), &ret)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ret.MessageID)
	assert.Equal(t, "/send_private_msg", gotPath)
	assert.Equal(t, "Bearer token123", gotAuth)
	assert.Contains(t, gotBody, `"user_id":10086`)
}

func TestCallActionSuffix(t *testing.T) {
	var gotPath string
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"retcode":1,"status":"async","data":null}`))
	})

	ret, err := cli.CallAction(context.Background(), DeleteMsg(1).Async())
	require.NoError(t, err)
	assert.True(t, ret.Async())
	assert.Equal(t, "/delete_msg_async", gotPath)
}

func TestCallFailureRetcode(t *testing.T) {
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retcode":100,"status":"failed","data":null}`))
	})

	err := cli.Call(context.Background(), GetLoginInfo(), &LoginInfoResult{})
	target := &Error{}
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 100, target.Retcode)
}

func TestCallTransportError(t *testing.T) {
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := cli.CallAction(context.Background(), GetLoginInfo())
	target := &TransportError{}
	require.ErrorAs(t, err, &target)
	assert.Equal(t, http.StatusNotFound, target.StatusCode)
}

func TestCallGetWithBodyRejected(t *testing.T) {
	var requests atomic.Int32
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	a := New("get_status")
	a.Method = http.MethodGet
	a.Body = map[string]any{"k": "v"}
	_, err := cli.CallAction(context.Background(), a)
	assert.Error(t, err)
	// 校验失败发生在发起请求之前
	assert.Equal(t, int32(0), requests.Load())
}

func TestCallAfterClose(t *testing.T) {
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":null}`))
	})
	cli.Close()
	_, err := cli.CallAction(context.Background(), GetLoginInfo())
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestEmptyBodyEncoding(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":null}`))
	}))
	defer srv.Close()

	cli := NewClient(Options{Host: srv.URL})
	_, err := cli.CallAction(context.Background(), GetLoginInfo())
	require.NoError(t, err)
	assert.Equal(t, "{}", gotBody)

	cli = NewClient(Options{Host: srv.URL, DisableEmptyBodyAsObject: true})
	_, err = cli.CallAction(context.Background(), GetLoginInfo())
	require.NoError(t, err)
	assert.Empty(t, gotBody)
}

func TestPreEncodedBodyPassThrough(t *testing.T) {
	var gotBody string
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":null}`))
	})

	_, err := cli.CallAction(context.Background(), New("custom_action").WithBody(`{"raw":true}`))
	require.NoError(t, err)
	assert.Equal(t, `{"raw":true}`, gotBody)
}

func TestHandlerShortCircuit(t *testing.T) {
	var requests atomic.Int32
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":null}`))
	})

	cli.Use(func(ctx context.Context, a *Action) (*Result, error) {
		if a.Name == "blocked" {
			return &Result{Retcode: 100, Status: "failed"}, nil
		}
		return nil, nil
	})

	ret, err := cli.CallAction(context.Background(), New("blocked"))
	require.NoError(t, err)
	assert.False(t, ret.OK())
	assert.Equal(t, int32(0), requests.Load())

	ret, err = cli.CallAction(context.Background(), New("allowed"))
	require.NoError(t, err)
	assert.True(t, ret.OK())
	assert.Equal(t, int32(1), requests.Load())
}

func TestRateLimitHandler(t *testing.T) {
	_, cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retcode":0,"status":"ok","data":null}`))
	})
	cli.Use(RateLimit(100, 1))

	for i := 0; i < 3; i++ {
		_, err := cli.CallAction(context.Background(), GetLoginInfo())
		require.NoError(t, err)
	}
}
