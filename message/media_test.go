package message

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveResourcePrecedence(t *testing.T) {
	// url 字段优先于 file 字段
	res := ResolveResource("http://example.com/a.jpg", "file:///tmp/a.jpg")
	assert.Equal(t, ResourceURL, res.Kind())
	assert.Equal(t, "http://example.com/a.jpg", res.URL())

	res = ResolveResource("", "file:///tmp/a.jpg")
	assert.Equal(t, ResourceFile, res.Kind())
	assert.Equal(t, "/tmp/a.jpg", res.Path())

	res = ResolveResource("", "base64://aGk=")
	assert.Equal(t, ResourceBytes, res.Kind())

	// 无前缀的 file 字段按远端地址处理
	res = ResolveResource("", "http://example.com/b.jpg")
	assert.Equal(t, ResourceURL, res.Kind())
	assert.Equal(t, "http://example.com/b.jpg", res.URL())
}

func TestResourceBase64(t *testing.T) {
	res := ResolveResource("", "base64://"+base64.StdEncoding.EncodeToString([]byte("hello")))
	data, err := res.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// 记忆化: 再次读取返回同一份内容
	again, err := res.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestResourceBase64Invalid(t *testing.T) {
	res := ResolveResource("", "base64://!!not-base64!!")
	_, err := res.Bytes(context.Background())
	require.Error(t, err)

	// 首次失败的结果同样被记忆
	_, err2 := res.Bytes(context.Background())
	assert.Equal(t, err, err2)
}

func TestResourceLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	res := ResolveResource("", "file://"+path)
	data, err := res.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestResourceFileValue(t *testing.T) {
	v, err := BytesResource([]byte("hi")).FileValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "base64://aGk=", v)

	v, err = LocalResource("/tmp/a.jpg").FileValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/a.jpg", v)
}

func TestResourceMimeType(t *testing.T) {
	res := BytesResource([]byte("{\"a\": 1}"))
	mime, err := res.MimeType(context.Background())
	require.NoError(t, err)
	assert.Contains(t, mime, "json")
}

func TestSegmentResourceMemoized(t *testing.T) {
	img := &Image{File: "base64://aGk=", URL: "http://example.com/a.jpg"}
	res := img.Resource()
	// url 优先于 file
	assert.Equal(t, ResourceURL, res.Kind())
	assert.Same(t, res, img.Resource())
}

func TestNewImageFromBytes(t *testing.T) {
	img, err := NewImage(context.Background(), BytesResource([]byte("hi")))
	require.NoError(t, err)
	assert.Equal(t, "base64://aGk=", img.File)
}
