package models

// Part is one piece of a model response. It is either a TextPart or an
// InlineDataPart.
type Part interface {
	isPart()
}

type TextPart string

type InlineDataPart struct {
	MIMEType string
	Data     []byte
}

func (TextPart) isPart() {}
func (InlineDataPart) isPart() {}

// FirstInlineData returns the first InlineDataPart in parts, in order.
func FirstInlineData(parts []Part) (InlineDataPart, bool) {
	for _, part := range parts {
		if blob, ok := part.(InlineDataPart); ok {
			return blob, true
		}
	}
	return InlineDataPart{}, false
}

// JoinText concatenates every TextPart in parts.
func JoinText(parts []Part) string {
	var text string
	for _, part := range parts {
		if txt, ok := part.(TextPart); ok {
			text += string(txt)
		}
	}
	return text
}
