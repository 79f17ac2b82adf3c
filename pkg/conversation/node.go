package conversation

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fragment is one encoded piece of a multimodal message, already in the
// serializable shape the remote API accepts (a mapping with a "type"
// discriminator).
type Fragment = map[string]interface{}

// Content is either plain text or an ordered list of encoded fragments. It
// marshals to the exact wire shape of a chat-completion message content
// field: a JSON string for text, an array of fragment objects otherwise.
type Content struct {
	Text  string
	Parts []Fragment
}

func NewTextContent(text string) Content {
	return Content{Text: text}
}

func NewPartsContent(parts []Fragment) Content {
	return Content{Parts: parts}
}

// IsParts reports whether the content is a fragment list rather than plain text.
func (c Content) IsParts() bool {
	return c.Parts != nil
}

// String returns the textual portion of the content. For fragment lists it
// concatenates the text fields of text fragments.
func (c Content) String() string {
	if c.Parts == nil {
		return c.Text
	}
	ret := ""
	for _, part := range c.Parts {
		if part["type"] == "text" {
			if text, ok := part["text"].(string); ok {
				if ret != "" {
					ret += "\n"
				}
				ret += text
			}
		}
	}
	return ret
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Content{Text: text}
		return nil
	}

	var parts []Fragment
	if err := json.Unmarshal(data, &parts); err != nil {
		return errors.Wrap(err, "content is neither a string nor a fragment list")
	}
	*c = Content{Parts: parts}
	return nil
}

// Node is one stored turn of the conversation. A user node and its paired
// assistant node share the same ID; system nodes have their own.
type Node struct {
	ID      int     `json:"id"`
	Role    Role    `json:"role"`
	Content Content `json:"content"`
	Active  bool    `json:"active"`
}

// Message is one entry of an assembled request payload.
type Message struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}
