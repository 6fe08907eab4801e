package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL + "/v1"
	config.APIKey = "sk-test"
	return NewClient(config)
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-mini-2024",
			"choices": [{"message": {"role": "assistant", "content": "{\"planTitle\":\"Go\"}"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	temperature := 0.0
	resp, err := client.Complete(context.Background(), Request{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Options: Options{
			Temperature:    &temperature,
			MaxTokens:      1500,
			ResponseFormat: FormatJSONObject,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 0.0, got.Temperature)
	assert.Equal(t, 1500, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, FormatJSONObject, got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "system"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "user"}, got.Messages[1])

	assert.Equal(t, "gpt-4o-mini-2024", resp.Model)
	assert.Equal(t, `{"planTitle":"Go"}`, resp.Text)
	assert.Empty(t, resp.Parts)
	assert.JSONEq(t, `{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}`, string(resp.Usage))
}

func TestCompleteDefaults(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), Request{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTemperature, got.Temperature)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Nil(t, got.ResponseFormat)
}

func TestCompleteContentParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": [
			{"type": "text", "text": "  {\"planTitle\": \"A\"}  "},
			{"type": "json", "json": {"planTitle": "B"}},
			{"type": "image_url", "image_url": {"url": "x"}}
		]}}]}`))
	})

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, resp.Parts, 2)
	assert.Equal(t, PartText, resp.Parts[0].Type)
	assert.Equal(t, `  {"planTitle": "A"}  `, resp.Parts[0].Text)
	assert.Equal(t, PartJSON, resp.Parts[1].Type)
	assert.JSONEq(t, `{"planTitle": "B"}`, string(resp.Parts[1].JSON))
	assert.Empty(t, resp.Text)
}

func TestCompleteParsedOutput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": null, "parsed": {"planTitle": "P"}}}]}`))
	})

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, resp.Parts, 1)
	assert.Equal(t, PartJSON, resp.Parts[0].Type)
	assert.Empty(t, resp.Text)
}

func TestCompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model": "m", "choices": []}`))
	})

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
	assert.Empty(t, resp.Parts)
}

func TestCompleteProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests"}}`))
	})

	_, err := client.Complete(context.Background(), Request{})
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusTooManyRequests, reqErr.StatusCode)
	assert.Equal(t, "Rate limit reached", reqErr.Message)
	assert.Equal(t, http.StatusTooManyRequests, reqErr.HTTPStatus())
}

func TestCompleteProviderErrorPlainBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), Request{})
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "Service Unavailable", reqErr.Message)
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{BaseURL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), Request{})

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, reqErr.Timeout)
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Equal(t, http.StatusGatewayTimeout, reqErr.HTTPStatus())
}

func TestCompleteNotConfigured(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRequestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, (&RequestError{Message: "connection refused"}).HTTPStatus())
	assert.Equal(t, "completion request failed: connection refused", (&RequestError{Message: "connection refused"}).Error())
	assert.Equal(t, "completion request failed: status 401: bad key", (&RequestError{StatusCode: 401, Message: "bad key"}).Error())
}
