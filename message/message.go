package message

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Message 有序消息段序列。顺序即渲染顺序, 编解码全程保持
type Message []Segment

// NewText 构造纯文本消息
func NewText(text string) Message {
	return Message{&Text{Text: text}}
}

// Append 追加消息段
func (m Message) Append(segs ...Segment) Message {
	return append(m, segs...)
}

type segmentWire struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON 编码为消息段对象数组
func (m Message) MarshalJSON() ([]byte, error) {
	wire := make([]segmentWire, 0, len(m))
	for _, seg := range m {
		w, err := marshalSegment(seg)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

func marshalSegment(seg Segment) (segmentWire, error) {
	if u, ok := seg.(*Unknown); ok {
		data := u.Data
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		return segmentWire{Type: u.Type, Data: data}, nil
	}
	data, err := json.Marshal(seg)
	if err != nil {
		return segmentWire{}, errors.Wrapf(err, "marshal %s segment", seg.SegmentType())
	}
	return segmentWire{Type: seg.SegmentType(), Data: data}, nil
}

// UnmarshalJSON 解码消息。接收侧始终为数组形式;
// 字符串形式仅用于发送侧消息的回读, 按CQ码文本解析
func (m *Message) UnmarshalJSON(data []byte) error {
	j := gjson.ParseBytes(data)
	switch {
	case j.IsArray():
		var msg Message
		j.ForEach(func(_, e gjson.Result) bool {
			msg = append(msg, decodeSegment(e))
			return true
		})
		*m = msg
		return nil
	case j.IsObject():
		*m = Message{decodeSegment(j)}
		return nil
	case j.Type == gjson.String:
		*m = ParseString(j.Str)
		return nil
	default:
		return errors.Errorf("message: unexpected wire form: %s", data)
	}
}

// decodeSegment 解码单个消息段。未注册的标签或字段不匹配的数据
// 降级为 Unknown, 永远不会使整条消息解码失败
func decodeSegment(e gjson.Result) Segment {
	typ := e.Get("type").Str
	raw := e.Get("data")
	if factory, ok := segmentFactory(typ); ok {
		seg := factory()
		if !raw.Exists() || raw.Type == gjson.Null {
			return seg
		}
		if raw.IsObject() {
			if err := json.Unmarshal([]byte(raw.Raw), seg); err == nil {
				return seg
			}
		}
	}
	var data json.RawMessage
	if raw.Exists() {
		data = json.RawMessage(raw.Raw)
	}
	return &Unknown{Type: typ, Data: data}
}

// StringShorthand 当消息仅由文本段组成时返回其字符串线上形式,
// 作为发送侧的合法优化。内容经过CQ码转义, 按字符串形式回读可还原
func (m Message) StringShorthand() (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	for _, seg := range m {
		if _, ok := plainText(seg); !ok {
			return "", false
		}
	}
	return m.CQString(), true
}

func plainText(seg Segment) (string, bool) {
	switch t := seg.(type) {
	case *Text:
		return t.Text, true
	case Text:
		return t.Text, true
	default:
		return "", false
	}
}

// ExtractPlainText 取出消息中所有文本段拼接后的内容
func (m Message) ExtractPlainText() string {
	text := ""
	for _, seg := range m {
		if t, ok := plainText(seg); ok {
			text += t
		}
	}
	return text
}
