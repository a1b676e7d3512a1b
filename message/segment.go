// Package message 提供 OneBot v11 消息的中间表示:
// 有序消息段序列、数组与字符串两种线上形式的编解码、媒体资源的惰性解析。
package message

import (
	"encoding/json"
	"sync"
)

// Segment 单个消息段。线上形式为 {"type": 标签, "data": 段自有字段}
type Segment interface {
	// SegmentType 返回消息段的类型标签
	SegmentType() string
}

// Text 纯文本
type Text struct {
	Text string `json:"text"`
}

// SegmentType 返回消息段的类型标签
func (Text) SegmentType() string { return "text" }

// Face QQ表情
type Face struct {
	ID string `json:"id"`
}

// SegmentType 返回消息段的类型标签
func (Face) SegmentType() string { return "face" }

// At @某人, QQ 为 "all" 时表示@全体成员
type At struct {
	QQ string `json:"qq"`
}

// SegmentType 返回消息段的类型标签
func (At) SegmentType() string { return "at" }

// AtAll @全体成员
func AtAll() At { return At{QQ: "all"} }

// RPS 猜拳魔法表情
type RPS struct{}

// SegmentType 返回消息段的类型标签
func (RPS) SegmentType() string { return "rps" }

// Dice 掷骰子魔法表情
type Dice struct{}

// SegmentType 返回消息段的类型标签
func (Dice) SegmentType() string { return "dice" }

// Shake 窗口抖动
type Shake struct{}

// SegmentType 返回消息段的类型标签
func (Shake) SegmentType() string { return "shake" }

// Poke 戳一戳
type Poke struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SegmentType 返回消息段的类型标签
func (Poke) SegmentType() string { return "poke" }

// Anonymous 匿名发消息
type Anonymous struct {
	Ignore *bool `json:"ignore,omitempty"`
}

// SegmentType 返回消息段的类型标签
func (Anonymous) SegmentType() string { return "anonymous" }

// Share 链接分享
type Share struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Image   string `json:"image,omitempty"`
}

// SegmentType 返回消息段的类型标签
func (Share) SegmentType() string { return "share" }

// Contact 推荐好友/推荐群
type Contact struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SegmentType 返回消息段的类型标签
func (Contact) SegmentType() string { return "contact" }

// Location 位置
type Location struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// SegmentType 返回消息段的类型标签
func (Location) SegmentType() string { return "location" }

// Music 音乐分享, Type 为 "custom" 时使用 URL/Audio 等自定义字段
type Music struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Audio   string `json:"audio,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Image   string `json:"image,omitempty"`
}

// SegmentType 返回消息段的类型标签
func (Music) SegmentType() string { return "music" }

// Image 图片。File 为发送时的资源定位, URL 仅在收到时存在
type Image struct {
	File    string `json:"file"`
	Type    string `json:"type,omitempty"`
	URL     string `json:"url,omitempty"`
	Cache   *bool  `json:"cache,omitempty"`
	Proxy   *bool  `json:"proxy,omitempty"`
	Timeout int    `json:"timeout,omitempty"`

	resOnce sync.Once
	res     *Resource
}

// SegmentType 返回消息段的类型标签
func (*Image) SegmentType() string { return "image" }

// Resource 解析图片指向的媒体资源, 结果按段实例记忆化
func (i *Image) Resource() *Resource {
	i.resOnce.Do(func() {
		i.res = ResolveResource(i.URL, i.File)
	})
	return i.res
}

// Record 语音
type Record struct {
	File    string `json:"file"`
	Magic   *bool  `json:"magic,omitempty"`
	URL     string `json:"url,omitempty"`
	Cache   *bool  `json:"cache,omitempty"`
	Proxy   *bool  `json:"proxy,omitempty"`
	Timeout int    `json:"timeout,omitempty"`

	resOnce sync.Once
	res     *Resource
}

// SegmentType 返回消息段的类型标签
func (*Record) SegmentType() string { return "record" }

// Resource 解析语音指向的媒体资源, 结果按段实例记忆化
func (r *Record) Resource() *Resource {
	r.resOnce.Do(func() {
		r.res = ResolveResource(r.URL, r.File)
	})
	return r.res
}

// Video 短视频
type Video struct {
	File    string `json:"file"`
	URL     string `json:"url,omitempty"`
	Cache   *bool  `json:"cache,omitempty"`
	Proxy   *bool  `json:"proxy,omitempty"`
	Timeout int    `json:"timeout,omitempty"`

	resOnce sync.Once
	res     *Resource
}

// SegmentType 返回消息段的类型标签
func (*Video) SegmentType() string { return "video" }

// Resource 解析视频指向的媒体资源, 结果按段实例记忆化
func (v *Video) Resource() *Resource {
	v.resOnce.Do(func() {
		v.res = ResolveResource(v.URL, v.File)
	})
	return v.res
}

// Reply 回复引用
type Reply struct {
	ID string `json:"id"`
}

// SegmentType 返回消息段的类型标签
func (Reply) SegmentType() string { return "reply" }

// Forward 合并转发指针, 仅收到
type Forward struct {
	ID string `json:"id"`
}

// SegmentType 返回消息段的类型标签
func (Forward) SegmentType() string { return "forward" }

// Node 合并转发节点。ID 不为空时引用已有消息,
// 否则为携带嵌套消息的自定义节点
type Node struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id,omitempty"`
	Nickname string  `json:"nickname,omitempty"`
	Content  Message `json:"content,omitempty"`
}

// SegmentType 返回消息段的类型标签
func (Node) SegmentType() string { return "node" }

// XML XML消息
type XML struct {
	Data string `json:"data"`
}

// SegmentType 返回消息段的类型标签
func (XML) SegmentType() string { return "xml" }

// JSON JSON消息
type JSON struct {
	Data string `json:"data"`
}

// SegmentType 返回消息段的类型标签
func (JSON) SegmentType() string { return "json" }

// Unknown 未识别的消息段, 保留原始标签与字段以便原样回传
type Unknown struct {
	Type string
	Data json.RawMessage
}

// SegmentType 返回消息段的类型标签
func (u *Unknown) SegmentType() string { return u.Type }

var (
	segmentMu    sync.RWMutex
	segmentTypes = map[string]func() Segment{
		"text":      func() Segment { return &Text{} },
		"face":      func() Segment { return &Face{} },
		"at":        func() Segment { return &At{} },
		"rps":       func() Segment { return &RPS{} },
		"dice":      func() Segment { return &Dice{} },
		"shake":     func() Segment { return &Shake{} },
		"poke":      func() Segment { return &Poke{} },
		"anonymous": func() Segment { return &Anonymous{} },
		"share":     func() Segment { return &Share{} },
		"contact":   func() Segment { return &Contact{} },
		"location":  func() Segment { return &Location{} },
		"music":     func() Segment { return &Music{} },
		"image":     func() Segment { return &Image{} },
		"record":    func() Segment { return &Record{} },
		"video":     func() Segment { return &Video{} },
		"reply":     func() Segment { return &Reply{} },
		"forward":   func() Segment { return &Forward{} },
		"node":      func() Segment { return &Node{} },
		"xml":       func() Segment { return &XML{} },
		"json":      func() Segment { return &JSON{} },
	}
)

// RegisterSegment 注册自定义消息段类型, 应在启动时调用。
// factory 返回可被 json.Unmarshal 填充的指针
func RegisterSegment(typ string, factory func() Segment) {
	segmentMu.Lock()
	defer segmentMu.Unlock()
	segmentTypes[typ] = factory
}

func segmentFactory(typ string) (func() Segment, bool) {
	segmentMu.RLock()
	defer segmentMu.RUnlock()
	f, ok := segmentTypes[typ]
	return f, ok
}
