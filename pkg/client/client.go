// Package client is a Go client for the study planner HTTP API.
//
// [Client] mirrors the server routes: sign-up and login, roadmap generation,
// the owner's plans and their milestones, steps and resources, public plans,
// bookmarks and progress. Responses decode into the same types the server
// encodes, from [github.com/MDAnandaB35/study-planner/internal/roadmap] and
// [github.com/MDAnandaB35/study-planner/internal/models].
//
// After [Client.Login] the session token is sent as a Bearer header on every
// request. Every non-2xx response is returned as an [*APIError].
//
//	c := client.NewClient("http://localhost:8080")
//	if _, err := c.Login(ctx, "learner@example.com", "secret"); err != nil {
//		return err
//	}
//	plan, err := c.Generate(ctx, "Learn Go", "Build a CLI tool")
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is safe for concurrent use once the auth token is set.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates a client for the server at baseURL, without a trailing
// slash. Requests time out after 30 seconds.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthToken sets the token sent as "Authorization: Bearer".
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

func (c *Client) AuthToken() string {
	return c.authToken
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	// Message is the "error" field of the response envelope, if any.
	Message string
	// Raw is the unparsed model output reported with malformed roadmaps.
	Raw string
	// PlanID is set when a generation failed after its plan was stored.
	PlanID string
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d, body=%s", e.StatusCode, string(e.Body))
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON envelope into target.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}
		var envelope struct {
			Error  string `json:"error"`
			Raw    string `json:"raw"`
			PlanID string `json:"plan_id"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Message = envelope.Error
			apiErr.Raw = envelope.Raw
			apiErr.PlanID = envelope.PlanID
		}
		return apiErr
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// call runs a request and decodes the envelope into target.
func (c *Client) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, path, err)
	}
	return decodeResponse(resp, target)
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.call(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
