package api

import (
	"github.com/gocq/onebot11/message"
)

// 本文件提供常用动作的类型化描述。
// 完整的动作目录由各 OneBot 实现自行扩展, 直接构造 Action 即可调用,
// 管线对两者一视同仁。

// SendMsgParams send_msg 动作参数
type SendMsgParams struct {
	MessageType string          `json:"message_type,omitempty"`
	UserID      int64           `json:"user_id,omitempty"`
	GroupID     int64           `json:"group_id,omitempty"`
	Message     message.Message `json:"message"`
	AutoEscape  bool            `json:"auto_escape,omitempty"`
}

// MessageIDResult 发送消息类动作的响应数据
type MessageIDResult struct {
	MessageID int64 `json:"message_id"`
}

// SendMsg 发送消息
func SendMsg(p SendMsgParams) Action {
	return New("send_msg").WithBody(p)
}

// SendPrivateMsg 发送私聊消息
func SendPrivateMsg(userID int64, msg message.Message) Action {
	return New("send_private_msg").WithBody(SendMsgParams{UserID: userID, Message: msg})
}

// SendGroupMsg 发送群消息
func SendGroupMsg(groupID int64, msg message.Message) Action {
	return New("send_group_msg").WithBody(SendMsgParams{GroupID: groupID, Message: msg})
}

// DeleteMsg 撤回消息
func DeleteMsg(messageID int64) Action {
	return New("delete_msg").WithBody(map[string]any{"message_id": messageID})
}

// GetMsgResult get_msg 动作的响应数据
type GetMsgResult struct {
	Time        int64           `json:"time"`
	MessageType string          `json:"message_type"`
	MessageID   int64           `json:"message_id"`
	RealID      int64           `json:"real_id"`
	Sender      Sender          `json:"sender"`
	Message     message.Message `json:"message"`
}

// GetMsg 获取消息
func GetMsg(messageID int64) Action {
	return New("get_msg").WithBody(map[string]any{"message_id": messageID})
}

// GetForwardMsgResult get_forward_msg 动作的响应数据
type GetForwardMsgResult struct {
	Message message.Message `json:"message"`
}

// GetForwardMsg 获取合并转发消息
func GetForwardMsg(id string) Action {
	return New("get_forward_msg").WithBody(map[string]any{"id": id})
}

// SendForwardMsgParams send_group_forward_msg 动作参数
type SendForwardMsgParams struct {
	GroupID  int64           `json:"group_id"`
	Messages message.Message `json:"messages"`
}

// SendGroupForwardMsg 发送合并转发(群)
func SendGroupForwardMsg(p SendForwardMsgParams) Action {
	return New("send_group_forward_msg").WithBody(p)
}

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

// LoginInfoResult get_login_info 动作的响应数据
type LoginInfoResult struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// GetLoginInfo 获取登录号信息
func GetLoginInfo() Action {
	return New("get_login_info")
}

// VersionInfoResult get_version_info 动作的响应数据
type VersionInfoResult struct {
	AppName         string `json:"app_name"`
	AppVersion      string `json:"app_version"`
	ProtocolVersion string `json:"protocol_version"`
}

// GetVersionInfo 获取版本信息
func GetVersionInfo() Action {
	return New("get_version_info")
}

// StrangerInfoResult get_stranger_info 动作的响应数据
type StrangerInfoResult struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Sex      string `json:"sex"`
	Age      int32  `json:"age"`
}

// GetStrangerInfo 获取陌生人信息
func GetStrangerInfo(userID int64, noCache bool) Action {
	return New("get_stranger_info").WithBody(map[string]any{"user_id": userID, "no_cache": noCache})
}

// FriendInfo 好友信息
type FriendInfo struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Remark   string `json:"remark"`
}

// GetFriendList 获取好友列表
func GetFriendList() Action {
	return New("get_friend_list")
}

// GroupInfo 群信息
type GroupInfo struct {
	GroupID        int64  `json:"group_id"`
	GroupName      string `json:"group_name"`
	MemberCount    int32  `json:"member_count"`
	MaxMemberCount int32  `json:"max_member_count"`
}

// GetGroupInfo 获取群信息
func GetGroupInfo(groupID int64, noCache bool) Action {
	return New("get_group_info").WithBody(map[string]any{"group_id": groupID, "no_cache": noCache})
}

// GetGroupList 获取群列表
func GetGroupList() Action {
	return New("get_group_list")
}

// SetGroupBan 群组单人禁言。duration 单位秒, 0 表示解除
func SetGroupBan(groupID, userID int64, duration int64) Action {
	return New("set_group_ban").WithBody(map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"duration": duration,
	})
}

// SetFriendAddRequest 处理加好友请求
func SetFriendAddRequest(flag string, approve bool, remark string) Action {
	return New("set_friend_add_request").WithBody(map[string]any{
		"flag":    flag,
		"approve": approve,
		"remark":  remark,
	})
}

// SetGroupAddRequest 处理加群请求/邀请
func SetGroupAddRequest(flag, subType string, approve bool, reason string) Action {
	return New("set_group_add_request").WithBody(map[string]any{
		"flag":     flag,
		"sub_type": subType,
		"approve":  approve,
		"reason":   reason,
	})
}
