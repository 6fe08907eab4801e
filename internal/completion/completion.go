// Package completion talks to an OpenAI compatible chat completions endpoint.
//
// The roadmap code depends only on [Requester]; [Client] is the HTTP
// implementation. A response keeps the assistant message in the shape the
// provider returned it: a plain string in [Response.Text], or typed content
// parts in [Response.Parts] when the provider answers with a list of parts or
// with an already parsed structured output.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured is returned by Complete when no API key is set.
var ErrNotConfigured = errors.New("OpenAI API key not configured")

type ResponseFormat string

const (
	FormatText       ResponseFormat = "text"
	FormatJSONObject ResponseFormat = "json_object"
)

// Options tune a single request. Zero values fall back to the client
// configuration.
type Options struct {
	Model          string
	Temperature    *float64
	MaxTokens      int
	ResponseFormat ResponseFormat
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Options      Options
}

type PartType string

const (
	PartText PartType = "text"
	PartJSON PartType = "json"
)

// Part is one typed piece of the assistant message. JSON parts carry an
// already decoded document and leave Text empty.
type Part struct {
	Type PartType
	Text string
	JSON json.RawMessage
}

type Response struct {
	Model string
	Text  string
	Parts []Part
	// Usage is the provider's token accounting, passed through untouched.
	Usage json.RawMessage
}

// Requester sends one prompt and waits for the answer.
type Requester interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// RequestError reports a failed call: a non-2xx answer from the provider, a
// transport failure or a timeout. StatusCode is zero when no HTTP response
// was received.
type RequestError struct {
	StatusCode int
	Message    string
	Timeout    bool
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion request failed: %s", e.Message)
	}
	return fmt.Sprintf("completion request failed: status %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus is the status a caller should surface for this failure.
func (e *RequestError) HTTPStatus() int {
	switch {
	case e.Timeout:
		return http.StatusGatewayTimeout
	case e.StatusCode >= 400:
		return e.StatusCode
	default:
		return http.StatusBadGateway
	}
}
