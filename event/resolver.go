package event

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// subTypeFields 各一级分类的二级类型字段名。
// 表中没有的一级分类按 "<post_type>_type" 取字段
var subTypeFields = map[string]string{
	"message":      "message_type",
	"message_sent": "message_type",
	"notice":       "notice_type",
	"request":      "request_type",
	"meta_event":   "meta_event_type",
}

// subTypeField 返回一级分类对应的二级类型字段名
func subTypeField(postType string) string {
	if field, ok := subTypeFields[postType]; ok {
		return field
	}
	return postType + "_type"
}

type eventKey struct {
	postType string
	subType  string
}

var (
	eventMu    sync.RWMutex
	eventTypes = map[eventKey]func() Event{
		{"message", "private"}:       func() Event { return &PrivateMessage{} },
		{"message", "group"}:         func() Event { return &GroupMessage{} },
		{"message_sent", "private"}:  func() Event { return &PrivateMessage{} },
		{"message_sent", "group"}:    func() Event { return &GroupMessage{} },
		{"meta_event", "lifecycle"}:  func() Event { return &Lifecycle{} },
		{"meta_event", "heartbeat"}:  func() Event { return &Heartbeat{} },
		{"notice", "friend_add"}:     func() Event { return &FriendAdd{} },
		{"notice", "friend_recall"}:  func() Event { return &FriendRecall{} },
		{"notice", "group_recall"}:   func() Event { return &GroupRecall{} },
		{"notice", "group_increase"}: func() Event { return &GroupIncrease{} },
		{"notice", "group_decrease"}: func() Event { return &GroupDecrease{} },
		{"notice", "group_admin"}:    func() Event { return &GroupAdmin{} },
		{"notice", "group_ban"}:      func() Event { return &GroupBan{} },
		{"notice", "group_upload"}:   func() Event { return &GroupUpload{} },
		{"notice", "notify"}:         func() Event { return &Notify{} },
		{"request", "friend"}:        func() Event { return &FriendRequest{} },
		{"request", "group"}:         func() Event { return &GroupRequest{} },
	}
)

// Register 注册 (post_type, 二级类型) 对应的事件类型, 应在启动时调用。
// factory 返回可被 json.Unmarshal 填充的指针
func Register(postType, subType string, factory func() Event) {
	eventMu.Lock()
	defer eventMu.Unlock()
	eventTypes[eventKey{postType, subType}] = factory
}

func eventFactory(postType, subType string) (func() Event, bool) {
	eventMu.RLock()
	defer eventMu.RUnlock()
	f, ok := eventTypes[eventKey{postType, subType}]
	return f, ok
}

// Resolve 将原始事件内容解析为具体事件。两级路由:
// 先取 post_type, 再按分类对应的字段取二级类型。
// 任何一级未能识别或解析失败都降级为 Unknown, 永不返回错误
func Resolve(payload []byte) Event {
	j := gjson.ParseBytes(payload)
	postType := j.Get("post_type").Str
	subType := j.Get(subTypeField(postType)).Str

	if factory, ok := eventFactory(postType, subType); ok {
		ev := factory()
		if err := json.Unmarshal(payload, ev); err == nil {
			return ev
		}
		log.Debugf("事件 %s/%s 字段解析失败, 降级为未知事件", postType, subType)
	}

	return &Unknown{
		Base: Base{
			Time:     j.Get("time").Int(),
			SelfID:   j.Get("self_id").Int(),
			PostType: postType,
		},
		SubType: subType,
		Raw:     j.Raw,
	}
}
