package message

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/gocq/onebot11/internal/download"
)

// ResourceKind 媒体资源的定位方式
type ResourceKind int

const (
	// ResourceURL 远端资源, 需要下载获取内容
	ResourceURL ResourceKind = iota
	// ResourceFile 本地文件路径
	ResourceFile
	// ResourceBytes 内容直接编码在消息段内
	ResourceBytes
)

// maxResourceSize 单个媒体资源下载上限
const maxResourceSize = 100 * 1024 * 1024

// Resource 媒体段指向的资源。内容读取按实例记忆化,
// 首次 Bytes 的结果(含错误)在后续调用中原样重现
type Resource struct {
	kind    ResourceKind
	locator string

	once sync.Once
	data []byte
	err  error
}

// ResolveResource 根据媒体段的 url 与 file 字段确定资源定位。
// 判定次序: url 字段优先, 其次按 file 字段的 file:// 与 base64://
// 前缀分流, 都不匹配时将 file 视为远端地址
func ResolveResource(url, file string) *Resource {
	switch {
	case url != "":
		return &Resource{kind: ResourceURL, locator: url}
	case strings.HasPrefix(file, "file://"):
		return &Resource{kind: ResourceFile, locator: strings.TrimPrefix(file, "file://")}
	case strings.HasPrefix(file, "base64://"):
		return &Resource{kind: ResourceBytes, locator: strings.TrimPrefix(file, "base64://")}
	default:
		return &Resource{kind: ResourceURL, locator: file}
	}
}

// LocalResource 指向本地文件的资源
func LocalResource(path string) *Resource {
	return &Resource{kind: ResourceFile, locator: path}
}

// BytesResource 持有内容本身的资源
func BytesResource(data []byte) *Resource {
	r := &Resource{kind: ResourceBytes}
	r.once.Do(func() { r.data = data })
	return r
}

// Kind 返回资源的定位方式
func (r *Resource) Kind() ResourceKind { return r.kind }

// URL 返回远端资源地址, 仅 ResourceURL 有意义
func (r *Resource) URL() string {
	if r.kind == ResourceURL {
		return r.locator
	}
	return ""
}

// Path 返回本地文件路径, 仅 ResourceFile 有意义
func (r *Resource) Path() string {
	if r.kind == ResourceFile {
		return r.locator
	}
	return ""
}

// Bytes 读取资源内容。base64 内容就地解码, 本地文件整体读入,
// 远端资源下载后返回。结果记忆化, 重复调用不再产生 I/O
func (r *Resource) Bytes(ctx context.Context) ([]byte, error) {
	r.once.Do(func() {
		switch r.kind {
		case ResourceBytes:
			r.data, r.err = base64.StdEncoding.DecodeString(r.locator)
			if r.err != nil {
				r.err = errors.Wrap(r.err, "decode base64 resource")
			}
		case ResourceFile:
			r.data, r.err = os.ReadFile(r.locator)
			if r.err != nil {
				r.err = errors.Wrap(r.err, "read local resource")
			}
		case ResourceURL:
			r.data, r.err = download.Request{
				Method: http.MethodGet,
				URL:    r.locator,
				Limit:  maxResourceSize,
			}.Bytes(ctx)
			if r.err != nil {
				r.err = errors.Wrapf(r.err, "download resource %s", r.locator)
			}
		}
	})
	return r.data, r.err
}

// MimeType 嗅探资源内容的媒体类型
func (r *Resource) MimeType(ctx context.Context) (string, error) {
	data, err := r.Bytes(ctx)
	if err != nil {
		return "", err
	}
	return mimetype.Detect(data).String(), nil
}

// FileValue 构造发送侧媒体段的 file 字段值
func (r *Resource) FileValue(ctx context.Context) (string, error) {
	switch r.kind {
	case ResourceURL:
		return r.locator, nil
	case ResourceFile:
		return "file://" + r.locator, nil
	default:
		data, err := r.Bytes(ctx)
		if err != nil {
			return "", err
		}
		return "base64://" + base64.StdEncoding.EncodeToString(data), nil
	}
}

// NewImage 以资源构造待发送的图片段
func NewImage(ctx context.Context, res *Resource) (*Image, error) {
	file, err := res.FileValue(ctx)
	if err != nil {
		return nil, err
	}
	return &Image{File: file}, nil
}

// NewRecord 以资源构造待发送的语音段
func NewRecord(ctx context.Context, res *Resource) (*Record, error) {
	file, err := res.FileValue(ctx)
	if err != nil {
		return nil, err
	}
	return &Record{File: file}, nil
}
