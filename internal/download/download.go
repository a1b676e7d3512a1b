// Package download provide download utility functions
package download

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var client = newClient(time.Second * 15)

var (
	clientMu sync.Mutex
	clients  = make(map[time.Duration]*http.Client)
)

func newClient(t time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 16,
		},
		Timeout: t,
	}
}

// ErrOverSize 响应主体过大时返回此错误
var ErrOverSize = errors.New("oversize")

// UserAgent HTTP请求时使用的UA
const UserAgent = "OneBot11Client/1.0"

// Request is a media download request
type Request struct {
	Method  string
	URL     string
	Header  map[string]string
	Limit   int64
	Body    io.Reader
	custcli *http.Client
}

// WithTimeout get a download instance with timeout t
func (r Request) WithTimeout(t time.Duration) *Request {
	clientMu.Lock()
	defer clientMu.Unlock()
	c, ok := clients[t]
	if !ok {
		c = newClient(t)
		clients[t] = c
	}
	r.custcli = c
	return &r
}

func (r Request) client() *http.Client {
	if r.custcli != nil {
		return r.custcli
	}
	return client
}

func (r Request) do(ctx context.Context) (*http.Response, error) {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, r.Body)
	if err != nil {
		return nil, err
	}

	req.Header["User-Agent"] = []string{UserAgent}
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	return r.client().Do(req)
}

func (r Request) body(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.do(ctx)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, errors.Errorf("unexpected status %v", resp.Status)
	}

	limit := r.Limit // check file size limit
	if limit > 0 && resp.ContentLength > limit {
		_ = resp.Body.Close()
		return nil, ErrOverSize
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		return gzipReadCloser(resp.Body)
	}
	return resp.Body, err
}

// Bytes 对给定URL发送请求，返回响应主体
func (r Request) Bytes(ctx context.Context) ([]byte, error) {
	rd, err := r.body(ctx)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}

// WriteTo 对给定URL发送请求并将响应主体写入 w
func (r Request) WriteTo(ctx context.Context, w io.Writer) (int64, error) {
	rd, err := r.body(ctx)
	if err != nil {
		return 0, err
	}
	defer rd.Close()
	return io.Copy(w, rd)
}

type gzipCloser struct {
	f io.Closer
	r *gzip.Reader
}

// Read impl io.Reader
func (g *gzipCloser) Read(p []byte) (n int, err error) {
	return g.r.Read(p)
}

// Close implements io.Closer
func (g *gzipCloser) Close() error {
	_ = g.f.Close()
	return g.r.Close()
}

// gzipReadCloser 从 io.ReadCloser 创建 gunzip io.ReadCloser
func gzipReadCloser(reader io.ReadCloser) (io.ReadCloser, error) {
	gzipReader, err := gzip.NewReader(reader)
	if err != nil {
		return nil, err
	}
	return &gzipCloser{f: reader, r: gzipReader}, nil
}
