package event

// MessageClass 消息事件的细分类别
type MessageClass int

const (
	// ClassOther 未识别的 sub_type
	ClassOther MessageClass = iota
	// ClassFriend 好友私聊
	ClassFriend
	// ClassGroupTemp 群临时会话私聊
	ClassGroupTemp
	// ClassGroupNormal 普通群消息
	ClassGroupNormal
	// ClassGroupAnonymous 匿名群消息
	ClassGroupAnonymous
	// ClassGroupNotice 群系统提示
	ClassGroupNotice
)

// ClassifyPrivateMessage 按 sub_type 细分私聊消息
func ClassifyPrivateMessage(e *PrivateMessage) MessageClass {
	switch e.SubType {
	case "friend":
		return ClassFriend
	case "group":
		return ClassGroupTemp
	default:
		return ClassOther
	}
}

// ClassifyGroupMessage 按 sub_type 细分群消息。
// sub_type 缺失但带有匿名发送者信息时同样视为匿名消息
func ClassifyGroupMessage(e *GroupMessage) MessageClass {
	switch e.SubType {
	case "normal":
		return ClassGroupNormal
	case "anonymous":
		return ClassGroupAnonymous
	case "notice":
		return ClassGroupNotice
	}
	if e.Anonymous != nil {
		return ClassGroupAnonymous
	}
	return ClassOther
}
