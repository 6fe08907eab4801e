package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 400
	DefaultTimeout     = 30 * time.Second
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// Client calls POST {BaseURL}/chat/completions.
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ Requester = (*Client)(nil)

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type ResponseFormat `json:"type"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
			Parsed  json.RawMessage `json:"parsed"`
		} `json:"message"`
	} `json:"choices"`
	Usage json.RawMessage `json:"usage"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.config.APIKey == "" {
		return nil, ErrNotConfigured
	}

	body := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if req.Options.Model != "" {
		body.Model = req.Options.Model
	}
	if req.Options.Temperature != nil {
		body.Temperature = *req.Options.Temperature
	}
	if req.Options.MaxTokens > 0 {
		body.MaxTokens = req.Options.MaxTokens
	}
	if req.Options.ResponseFormat != "" {
		body.ResponseFormat = &chatFormat{Type: req.Options.ResponseFormat}
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: err.Error(), Timeout: isTimeout(err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return toResponse(&decoded)
}

func (c *Client) doRequest(ctx context.Context, body chatRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: err.Error(), Timeout: isTimeout(err)}
	}
	return resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func errorMessage(status int, body []byte) string {
	var apiErr chatError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

// toResponse flattens the first choice. Content may be a string, null, or a
// list of {"type": ..., "text"|"json": ...} parts.
func toResponse(decoded *chatResponse) (*Response, error) {
	out := &Response{
		Model: decoded.Model,
		Usage: decoded.Usage,
	}
	if len(decoded.Choices) == 0 {
		return out, nil
	}
	msg := decoded.Choices[0].Message

	if isJSONValue(msg.Parsed) {
		out.Parts = append(out.Parts, Part{Type: PartJSON, JSON: msg.Parsed})
	}

	content := bytes.TrimSpace(msg.Content)
	if len(content) == 0 || bytes.Equal(content, []byte("null")) {
		return out, nil
	}

	switch content[0] {
	case '"':
		if err := json.Unmarshal(content, &out.Text); err != nil {
			return nil, &RequestError{Message: fmt.Sprintf("failed to decode message content: %v", err)}
		}
	case '[':
		var parts []struct {
			Type string          `json:"type"`
			Text string          `json:"text"`
			JSON json.RawMessage `json:"json"`
		}
		if err := json.Unmarshal(content, &parts); err != nil {
			return nil, &RequestError{Message: fmt.Sprintf("failed to decode message content: %v", err)}
		}
		for _, p := range parts {
			switch PartType(p.Type) {
			case PartJSON:
				if isJSONValue(p.JSON) {
					out.Parts = append(out.Parts, Part{Type: PartJSON, JSON: p.JSON})
				}
			case PartText:
				out.Parts = append(out.Parts, Part{Type: PartText, Text: p.Text})
			}
		}
	default:
		return nil, &RequestError{Message: "unexpected message content type"}
	}
	return out, nil
}

func isJSONValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
