package message

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// @@@ CQ码转义处理 @@@

// EscapeText 将字符串raw中部分字符转义
//
//   - & -> &amp;
//   - [ -> &#91;
//   - ] -> &#93;
func EscapeText(s string) string {
	count := strings.Count(s, "&")
	count += strings.Count(s, "[")
	count += strings.Count(s, "]")
	if count == 0 {
		return s
	}

	// Apply replacements to buffer.
	var b strings.Builder
	b.Grow(len(s) + count*4)
	start := 0
	for i := 0; i < count; i++ {
		j := start
		for index, r := range s[start:] {
			if r == '&' || r == '[' || r == ']' {
				j += index
				break
			}
		}
		b.WriteString(s[start:j])
		switch s[j] {
		case '&':
			b.WriteString("&amp;")
		case '[':
			b.WriteString("&#91;")
		case ']':
			b.WriteString("&#93;")
		}
		start = j + 1
	}
	b.WriteString(s[start:])
	return b.String()
}

// EscapeValue 将字符串value中部分字符转义
//
//   - , -> &#44;
//   - & -> &amp;
//   - [ -> &#91;
//   - ] -> &#93;
func EscapeValue(value string) string {
	ret := EscapeText(value)
	return strings.ReplaceAll(ret, ",", "&#44;")
}

// UnescapeText 将字符串content中部分字符反转义
//
//   - &amp; -> &
//   - &#91; -> [
//   - &#93; -> ]
func UnescapeText(content string) string {
	ret := content
	ret = strings.ReplaceAll(ret, "&#91;", "[")
	ret = strings.ReplaceAll(ret, "&#93;", "]")
	ret = strings.ReplaceAll(ret, "&amp;", "&")
	return ret
}

// UnescapeValue 将字符串content中部分字符反转义
//
//   - &#44; -> ,
//   - &amp; -> &
//   - &#91; -> [
//   - &#93; -> ]
func UnescapeValue(content string) string {
	ret := strings.ReplaceAll(content, "&#44;", ",")
	return UnescapeText(ret)
}

// CQString 将消息编码为CQ码文本, 即消息的字符串线上形式
func (m Message) CQString() string {
	var sb strings.Builder
	for _, seg := range m {
		if t, ok := plainText(seg); ok {
			sb.WriteString(EscapeText(t))
			continue
		}
		writeCQCodeTo(&sb, seg)
	}
	return sb.String()
}

func writeCQCodeTo(sb *strings.Builder, seg Segment) {
	sb.WriteString("[CQ:")
	sb.WriteString(seg.SegmentType())
	w, err := marshalSegment(seg)
	if err == nil && len(w.Data) > 0 {
		gjson.ParseBytes(w.Data).ForEach(func(key, value gjson.Result) bool {
			sb.WriteByte(',')
			sb.WriteString(key.Str)
			sb.WriteByte('=')
			sb.WriteString(EscapeValue(value.String()))
			return true
		})
	}
	sb.WriteByte(']')
}

// ParseString 将CQ码文本解析为消息
func ParseString(raw string) Message {
	var msg Message
	for raw != "" {
		i := strings.Index(raw, "[CQ:")
		if i < 0 {
			msg = append(msg, &Text{Text: UnescapeText(raw)})
			break
		}
		if i > 0 {
			msg = append(msg, &Text{Text: UnescapeText(raw[:i])})
			raw = raw[i:]
		}
		end := strings.IndexByte(raw, ']')
		if end < 0 {
			// 未闭合的CQ码按原样视为文本
			msg = append(msg, &Text{Text: UnescapeText(raw)})
			break
		}
		msg = append(msg, parseCQCode(raw[4:end]))
		raw = raw[end+1:]
	}
	return msg
}

// parseCQCode 解析 "type,k=v,..." 形式的单个CQ码内容
func parseCQCode(content string) Segment {
	parts := strings.Split(content, ",")
	typ := parts[0]
	data := make(map[string]string, len(parts)-1)
	for _, kv := range parts[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		data[k] = UnescapeValue(v)
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return &Unknown{Type: typ}
	}
	return decodeSegment(gjson.Parse(`{"type":` + string(mustMarshal(typ)) + `,"data":` + string(encoded) + `}`))
}

func mustMarshal(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}
