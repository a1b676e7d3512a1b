// Package event 提供 OneBot v11 推送事件的解析与分发:
// 以 post_type 与各自的二级类型字段做两级路由,
// 未识别的事件保留原始内容而不是解析失败。
package event

import (
	"github.com/gocq/onebot11/message"
)

// Event 单个推送事件
type Event interface {
	// EventTime 事件发生的时间戳
	EventTime() int64
	// EventSelfID 收到事件的机器人账号
	EventSelfID() int64
	// EventPostType 事件的一级分类
	EventPostType() string
}

// Base 所有事件共有的头部字段
type Base struct {
	Time     int64  `json:"time"`
	SelfID   int64  `json:"self_id"`
	PostType string `json:"post_type"`
}

// EventTime 事件发生的时间戳
func (b *Base) EventTime() int64 { return b.Time }

// EventSelfID 收到事件的机器人账号
func (b *Base) EventSelfID() int64 { return b.SelfID }

// EventPostType 事件的一级分类
func (b *Base) EventPostType() string { return b.PostType }

// Sender 消息发送者信息
type Sender struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Card     string `json:"card,omitempty"`
	Sex      string `json:"sex,omitempty"`
	Age      int32  `json:"age,omitempty"`
	Area     string `json:"area,omitempty"`
	Level    string `json:"level,omitempty"`
	Role     string `json:"role,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Anonymous 匿名消息的发送者信息
type Anonymous struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// PrivateMessage 私聊消息事件
type PrivateMessage struct {
	Base
	MessageType string          `json:"message_type"`
	SubType     string          `json:"sub_type"`
	MessageID   int64           `json:"message_id"`
	UserID      int64           `json:"user_id"`
	Message     message.Message `json:"message"`
	RawMessage  string          `json:"raw_message"`
	Font        int32           `json:"font"`
	Sender      Sender          `json:"sender"`
}

// GroupMessage 群消息事件
type GroupMessage struct {
	Base
	MessageType string          `json:"message_type"`
	SubType     string          `json:"sub_type"`
	MessageID   int64           `json:"message_id"`
	GroupID     int64           `json:"group_id"`
	UserID      int64           `json:"user_id"`
	Anonymous   *Anonymous      `json:"anonymous"`
	Message     message.Message `json:"message"`
	RawMessage  string          `json:"raw_message"`
	Font        int32           `json:"font"`
	Sender      Sender          `json:"sender"`
}

// Lifecycle 生命周期元事件
type Lifecycle struct {
	Base
	MetaEventType string `json:"meta_event_type"`
	SubType       string `json:"sub_type"`
}

// HeartbeatStatus 心跳携带的运行状态
type HeartbeatStatus struct {
	Online bool `json:"online"`
	Good   bool `json:"good"`
}

// Heartbeat 心跳元事件
type Heartbeat struct {
	Base
	MetaEventType string          `json:"meta_event_type"`
	Status        HeartbeatStatus `json:"status"`
	Interval      int64           `json:"interval"`
}

// FriendAdd 好友添加通知
type FriendAdd struct {
	Base
	NoticeType string `json:"notice_type"`
	UserID     int64  `json:"user_id"`
}

// FriendRecall 好友消息撤回通知
type FriendRecall struct {
	Base
	NoticeType string `json:"notice_type"`
	UserID     int64  `json:"user_id"`
	MessageID  int64  `json:"message_id"`
}

// GroupRecall 群消息撤回通知
type GroupRecall struct {
	Base
	NoticeType string `json:"notice_type"`
	GroupID    int64  `json:"group_id"`
	UserID     int64  `json:"user_id"`
	OperatorID int64  `json:"operator_id"`
	MessageID  int64  `json:"message_id"`
}

// GroupIncrease 群成员增加通知
type GroupIncrease struct {
	Base
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id"`
	OperatorID int64  `json:"operator_id"`
	UserID     int64  `json:"user_id"`
}

// GroupDecrease 群成员减少通知
type GroupDecrease struct {
	Base
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id"`
	OperatorID int64  `json:"operator_id"`
	UserID     int64  `json:"user_id"`
}

// GroupAdmin 群管理员变动通知
type GroupAdmin struct {
	Base
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id"`
	UserID     int64  `json:"user_id"`
}

// GroupBan 群禁言通知, Duration 为 0 表示解除
type GroupBan struct {
	Base
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id"`
	OperatorID int64  `json:"operator_id"`
	UserID     int64  `json:"user_id"`
	Duration   int64  `json:"duration"`
}

// UploadFile 群文件上传通知中的文件信息
type UploadFile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	BusID int64  `json:"busid"`
}

// GroupUpload 群文件上传通知
type GroupUpload struct {
	Base
	NoticeType string     `json:"notice_type"`
	GroupID    int64      `json:"group_id"`
	UserID     int64      `json:"user_id"`
	File       UploadFile `json:"file"`
}

// Notify 提示类通知, 按 SubType 细分为戳一戳/红包运气王/荣誉变更
type Notify struct {
	Base
	NoticeType string `json:"notice_type"`
	SubType    string `json:"sub_type"`
	GroupID    int64  `json:"group_id,omitempty"`
	UserID     int64  `json:"user_id"`
	TargetID   int64  `json:"target_id,omitempty"`
	HonorType  string `json:"honor_type,omitempty"`
}

// FriendRequest 加好友请求
type FriendRequest struct {
	Base
	RequestType string `json:"request_type"`
	UserID      int64  `json:"user_id"`
	Comment     string `json:"comment"`
	Flag        string `json:"flag"`
}

// GroupRequest 加群请求或邀请
type GroupRequest struct {
	Base
	RequestType string `json:"request_type"`
	SubType     string `json:"sub_type"`
	GroupID     int64  `json:"group_id"`
	UserID      int64  `json:"user_id"`
	Comment     string `json:"comment"`
	Flag        string `json:"flag"`
}

// Unknown 未识别的事件。头部字段尽力解析, 原始内容完整保留
type Unknown struct {
	Base
	SubType string
	Raw     string
}
