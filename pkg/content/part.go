package content

// Fragment is the serializable mapping a Part encodes to. The "type" field
// discriminates the fragment kind for the remote API.
type Fragment = map[string]interface{}

// Part is one piece of a multimodal message. Encoding happens at send time,
// so expensive work (reading files, base64) only runs when a request is
// actually assembled.
type Part interface {
	Encode() (Fragment, error)
}

// Text is a plain text message part.
type Text string

func (t Text) Encode() (Fragment, error) {
	return Fragment{
		"type": "text",
		"text": string(t),
	}, nil
}

var _ Part = Text("")
