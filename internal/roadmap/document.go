package roadmap

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Document is the roadmap as the model described it. Scalars stay raw until
// persistence resolves them, so a field of the wrong JSON type degrades to
// its fallback instead of failing the whole document.
type Document struct {
	PlanTitle              Scalar         `json:"planTitle"`
	Focus                  Scalar         `json:"focus"`
	Outcome                Scalar         `json:"outcome"`
	EstimatedDurationWeeks Scalar         `json:"estimatedDurationWeeks"`
	Milestones             []MilestoneDoc `json:"milestones"`

	// Raw is the JSON the document was decoded from.
	Raw json.RawMessage `json:"-"`
}

// MilestoneDoc is one entry of the model's milestones array.
type MilestoneDoc struct {
	Title             Scalar    `json:"title"`
	Description       Scalar    `json:"description"`
	EstimatedDuration Scalar    `json:"estimatedDuration"`
	Steps             []StepDoc `json:"steps"`
}

// StepDoc is one entry of a milestone's steps array.
type StepDoc struct {
	Title       Scalar        `json:"title"`
	Description Scalar        `json:"description"`
	Resources   []ResourceDoc `json:"resources"`
}

// ResourceDoc is one entry of a step's resources array.
type ResourceDoc struct {
	Type  Scalar `json:"type"`
	Title Scalar `json:"title"`
	URL   Scalar `json:"url"`
}

// decodeDocument decodes a top-level JSON object. Any other top-level value,
// including null, is rejected.
func decodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &json.UnmarshalTypeError{Value: jsonKind(trimmed), Type: documentType}
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	doc.Raw = append(json.RawMessage(nil), trimmed...)
	return &doc, nil
}

var documentType = reflect.TypeOf(Document{})

// Scalar is an optional JSON value of unknown type. The zero Scalar means the
// key was absent.
type Scalar struct {
	raw json.RawMessage
}

// ScalarOf wraps a Go value, mostly for tests and edit payloads.
func ScalarOf(v any) Scalar {
	data, err := json.Marshal(v)
	if err != nil {
		return Scalar{}
	}
	return Scalar{raw: data}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], data...)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// Present reports whether the key appeared, even with a null value.
func (s Scalar) Present() bool {
	return len(s.raw) > 0
}

// Text returns the value as text and whether it counts as set. Null, false,
// zero and the empty string count as unset. Numbers and true are formatted;
// objects and arrays are returned as compact JSON.
func (s Scalar) Text() (string, bool) {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case 'n', 'f':
		return "", false
	case 't':
		return "true", true
	case '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil || str == "" {
			return "", false
		}
		return str, true
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", false
		}
		return buf.String(), true
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || f == 0 {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
}

// TextOr returns Text, or fallback when the value is unset.
func (s Scalar) TextOr(fallback string) string {
	if text, ok := s.Text(); ok {
		return text
	}
	return fallback
}

// TextOrNil is Text as a nullable column value.
func (s Scalar) TextOrNil() *string {
	if text, ok := s.Text(); ok {
		return &text
	}
	return nil
}

// Int returns a JSON number, or a string holding one, truncated toward zero.
// Anything else, including values outside the 32-bit range, is nil.
func (s Scalar) Int() *int {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 {
		return nil
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "bool"
	default:
		return "number"
	}
}
