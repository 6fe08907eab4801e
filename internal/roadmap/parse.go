package roadmap

import (
	"strings"

	"github.com/MDAnandaB35/study-planner/internal/completion"
)

// Parse extracts the roadmap document from a model response.
//
// A part tagged as JSON is used as is. Otherwise the first non-blank text
// part, or the plain message text, is trimmed and decoded. Text that is not
// a JSON object yields a *MalformedResponseError holding the text exactly as
// the model sent it.
func Parse(resp *completion.Response) (*Document, error) {
	if resp == nil {
		return nil, ErrEmptyModelResponse
	}

	for _, part := range resp.Parts {
		if part.Type == completion.PartJSON && len(part.JSON) > 0 {
			doc, err := decodeDocument(part.JSON)
			if err != nil {
				return nil, &MalformedResponseError{Raw: string(part.JSON), Err: err}
			}
			return doc, nil
		}
	}

	raw := resp.Text
	for _, part := range resp.Parts {
		if part.Type == completion.PartText && strings.TrimSpace(part.Text) != "" {
			raw = part.Text
			break
		}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyModelResponse
	}

	doc, err := decodeDocument([]byte(text))
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	return doc, nil
}
