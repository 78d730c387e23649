package chat

import (
	"encoding/json"
	"fmt"
)

// PartKind discriminates the variants of a message part.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// Part is one element of structured message content: either a text span
// or an image reference (data URL or remote URL).
type Part struct {
	Kind PartKind `json:"type"`
	Text string   `json:"text,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart creates an image part.
func ImagePart(url string) Part {
	return Part{Kind: PartImage, URL: url}
}

// Content is a message body in one of two forms: plain text (the common
// case) or an ordered part sequence (only when an attachment exists).
// The zero value is empty plain text.
type Content struct {
	text  string
	parts []Part
}

// PlainText creates plain string content.
func PlainText(text string) Content {
	return Content{text: text}
}

// PartsContent creates structured content from a part sequence. The
// sequence must be non-empty, and every image part must carry a URL.
func PartsContent(parts []Part) (Content, error) {
	if len(parts) == 0 {
		return Content{}, &ContentError{Reason: "empty part sequence"}
	}
	for i, p := range parts {
		switch p.Kind {
		case PartText:
		case PartImage:
			if p.URL == "" {
				return Content{}, &ContentError{Reason: fmt.Sprintf("image part %d has no url", i)}
			}
		default:
			return Content{}, &ContentError{Reason: fmt.Sprintf("unknown part kind %q", p.Kind)}
		}
	}
	copied := make([]Part, len(parts))
	copy(copied, parts)
	return Content{parts: copied}, nil
}

// BuildContent returns plain string content when imageURL is empty, and a
// two-part text+image sequence otherwise. The structured form is only
// paid for when an attachment exists.
func BuildContent(text, imageURL string) Content {
	if imageURL == "" {
		return PlainText(text)
	}
	c, _ := PartsContent([]Part{TextPart(text), ImagePart(imageURL)})
	return c
}

// IsParts reports whether the content is in structured form.
func (c Content) IsParts() bool {
	return c.parts != nil
}

// Parts returns a copy of the part sequence, or nil for plain content.
func (c Content) Parts() []Part {
	if c.parts == nil {
		return nil
	}
	copied := make([]Part, len(c.parts))
	copy(copied, c.parts)
	return copied
}

// PlainText returns the display/edit text of the content: the string
// itself for plain content, otherwise the text of the first text part
// (empty when the sequence has none). Both representations of the same
// text normalize identically, so edits round-trip.
func (c Content) PlainText() string {
	if c.parts == nil {
		return c.text
	}
	for _, p := range c.parts {
		if p.Kind == PartText {
			return p.Text
		}
	}
	return ""
}

// HasAttachment reports whether any part is an image.
func (c Content) HasAttachment() bool {
	for _, p := range c.parts {
		if p.Kind == PartImage {
			return true
		}
	}
	return false
}

// MarshalJSON encodes plain content as a JSON string and structured
// content as a part array, matching the backend wire format.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.parts == nil {
		return json.Marshal(c.text)
	}
	return json.Marshal(c.parts)
}

// UnmarshalJSON accepts both wire forms. An empty part array is rejected
// with a ContentError so malformed content is never stored.
func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = PlainText(text)
		return nil
	}

	var parts []Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return &ContentError{Reason: "content is neither a string nor a part array"}
	}
	parsed, err := PartsContent(parts)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
