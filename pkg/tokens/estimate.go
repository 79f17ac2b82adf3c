package tokens

import (
	"github.com/pkg/errors"
	"github.com/tiktoken-go/tokenizer"

	"github.com/go-go-golems/parlance/pkg/conversation"
)

// Per-message framing overhead of the chat-completion wire format.
const messageOverhead = 4

// GetCodec resolves the tokenizer codec for a model, falling back to
// cl100k_base for models the tokenizer does not know.
func GetCodec(model string) (tokenizer.Codec, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err == nil {
		return codec, nil
	}
	codec, err = tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, errors.Wrap(err, "could not load fallback codec")
	}
	return codec, nil
}

// EstimateMessages returns a local token estimate for an assembled request
// payload. Only textual content counts; image fragments are ignored.
func EstimateMessages(model string, messages []conversation.Message) (int, error) {
	codec, err := GetCodec(model)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, message := range messages {
		ids, _, err := codec.Encode(message.Content.String())
		if err != nil {
			return 0, errors.Wrap(err, "could not encode message")
		}
		total += len(ids) + messageOverhead
	}

	return total, nil
}

// EstimateText returns a local token count for a plain string.
func EstimateText(model string, text string) (int, error) {
	codec, err := GetCodec(model)
	if err != nil {
		return 0, err
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, errors.Wrap(err, "could not encode text")
	}
	return len(ids), nil
}
