// ABOUTME: HTTP client for the external AI summarization service
// ABOUTME: Handles transcript summarization, process generation, and speech tokens
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

const requestTimeout = 2 * time.Minute

// Client calls the AI backend. Its structured output is treated as
// authoritative; callers replace local state with it wholesale.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Request carries the raw transcript plus scope identifiers.
type Request struct {
	Transcript    string    `json:"transcript"`
	TenantSlug    string    `json:"slug,omitempty"`
	WorkspaceID   uuid.UUID `json:"workspace_id,omitempty"`
	ScanID        uuid.UUID `json:"scan_id,omitempty"`
	LifecycleID   uuid.UUID `json:"lifecycle_id"`
	ObjectiveKeys []string  `json:"objective_keys,omitempty"`
}

// Result is the structured summary returned by the service.
type Result struct {
	PainPoints     []models.PainPoint `json:"pain_points"`
	OverallSummary string             `json:"overall_summary"`
}

// Summarize sends the full transcript and returns the structured result.
func (c *Client) Summarize(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	var result Result
	if err := c.post(ctx, "/summarize", req, &result); err != nil {
		return nil, err
	}
	if result.PainPoints == nil {
		result.PainPoints = []models.PainPoint{}
	}
	return &result, nil
}

// ProcessRequest asks for an AI-generated process tree for a lifecycle.
type ProcessRequest struct {
	LifecycleName        string `json:"lifecycle_name"`
	LifecycleDescription string `json:"lifecycle_description,omitempty"`
	CompanyName          string `json:"company_name,omitempty"`
}

// GenerateProcesses builds a category/group tree for the lifecycle.
func (c *Client) GenerateProcesses(ctx context.Context, req *ProcessRequest) (*models.Processes, error) {
	if req.LifecycleName == "" {
		return nil, fmt.Errorf("lifecycle name is required")
	}

	var processes models.Processes
	if err := c.post(ctx, "/generate-processes", req, &processes); err != nil {
		return nil, err
	}
	return &processes, nil
}

// SpeechToken is a short-lived credential for the speech SDK.
type SpeechToken struct {
	Key    string `json:"key"`
	Region string `json:"region"`
}

// FetchSpeechToken retrieves speech credentials from the token endpoint.
func (c *Client) FetchSpeechToken(ctx context.Context) (*SpeechToken, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/azure-speech-token", nil)
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch speech token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var token SpeechToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode speech token: %w", err)
	}
	if token.Key == "" || token.Region == "" {
		return nil, fmt.Errorf("speech token response missing key or region")
	}
	return &token, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, msg)
}
