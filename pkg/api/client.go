package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/runs"
)

// Client talks to the agent runtime's REST API. All agent execution and
// scheduling happens server-side; this client only observes and
// requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 90*time.Second)
}

func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListAssistants fetches all assistants.
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var assistants []Assistant
	if err := c.getJSON(ctx, "/assistants", &assistants); err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}
	return assistants, nil
}

// CreateAssistant registers a new assistant.
func (c *Client) CreateAssistant(ctx context.Context, req CreateAssistantRequest) (*Assistant, error) {
	var assistant Assistant
	if err := c.postJSON(ctx, "/assistants", req, &assistant); err != nil {
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}
	return &assistant, nil
}

// CreateThread opens a new chat thread for an assistant.
func (c *Client) CreateThread(ctx context.Context, graphID, assistantID string) (*Thread, error) {
	payload := map[string]string{
		"graph_id":     graphID,
		"assistant_id": assistantID,
	}

	var thread Thread
	if err := c.postJSON(ctx, "/chat/new", payload, &thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return &thread, nil
}

// SearchThreads finds threads whose metadata matches.
func (c *Client) SearchThreads(ctx context.Context, metadata map[string]any) ([]Thread, error) {
	payload := map[string]any{"metadata": metadata}

	var response ThreadSearchResponse
	if err := c.postJSON(ctx, "/chat/search", payload, &response); err != nil {
		return nil, fmt.Errorf("failed to search threads: %w", err)
	}
	return response.Threads, nil
}

// GetHistory fetches up to limit persisted snapshots of a thread,
// newest first.
func (c *Client) GetHistory(ctx context.Context, threadID string, limit int) ([]ThreadState, error) {
	payload := map[string]int{"limit": limit}

	var states []ThreadState
	if err := c.postJSON(ctx, fmt.Sprintf("/chat/%s/history", threadID), payload, &states); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return states, nil
}

// LatestMessages returns the newest snapshot's message log, or an empty
// slice for a fresh thread.
func (c *Client) LatestMessages(ctx context.Context, threadID string) ([]chat.Message, error) {
	states, err := c.GetHistory(ctx, threadID, 1)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, nil
	}
	return states[0].Values.Messages, nil
}

// CreateRun starts a background run on a thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID, message string) (*runs.Snapshot, error) {
	req := CreateRunRequest{
		AssistantID: assistantID,
		Input:       RunInput{Messages: []chat.Message{chat.NewHumanMessage(message)}},
	}

	var snapshot runs.Snapshot
	if err := c.postJSON(ctx, fmt.Sprintf("/chat/%s/runs", threadID), req, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &snapshot, nil
}

// GetRun fetches the current status of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (runs.Snapshot, error) {
	var snapshot runs.Snapshot
	if err := c.getJSON(ctx, fmt.Sprintf("/chat/%s/runs/%s", threadID, runID), &snapshot); err != nil {
		return runs.Snapshot{}, fmt.Errorf("failed to get run: %w", err)
	}
	return snapshot, nil
}

// StreamRun creates a run and returns its live event stream. The caller
// owns the returned body and must close it.
func (c *Client) StreamRun(ctx context.Context, threadID, assistantID, message string) (io.ReadCloser, error) {
	req := CreateRunRequest{
		AssistantID: assistantID,
		Input:       RunInput{Messages: []chat.Message{chat.NewHumanMessage(message)}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stream request: %w", err)
	}

	url := fmt.Sprintf("%s/threads/%s/runs/stream", c.baseURL, threadID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to open run stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("run stream request failed with status: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// ListCrons lists cron jobs, optionally filtered by assistant.
func (c *Client) ListCrons(ctx context.Context, assistantID string) ([]Cron, error) {
	path := "/cron"
	if assistantID != "" {
		path = fmt.Sprintf("/cron?assistant_id=%s", assistantID)
	}

	var crons []Cron
	if err := c.getJSON(ctx, path, &crons); err != nil {
		return nil, fmt.Errorf("failed to list cron jobs: %w", err)
	}
	return crons, nil
}

// GetCron fetches one cron job.
func (c *Client) GetCron(ctx context.Context, cronID string) (*Cron, error) {
	var cron Cron
	if err := c.getJSON(ctx, fmt.Sprintf("/cron/%s", cronID), &cron); err != nil {
		return nil, fmt.Errorf("failed to get cron job: %w", err)
	}
	return &cron, nil
}

// CreateCron registers a new cron job.
func (c *Client) CreateCron(ctx context.Context, req CreateCronRequest) (*Cron, error) {
	var cron Cron
	if err := c.postJSON(ctx, "/cron", req, &cron); err != nil {
		return nil, fmt.Errorf("failed to create cron job: %w", err)
	}
	return &cron, nil
}

// UpdateCron modifies an existing cron job.
func (c *Client) UpdateCron(ctx context.Context, cronID string, req UpdateCronRequest) (*Cron, error) {
	var cron Cron
	if err := c.postJSON(ctx, fmt.Sprintf("/cron/%s", cronID), req, &cron); err != nil {
		return nil, fmt.Errorf("failed to update cron job: %w", err)
	}
	return &cron, nil
}

// DeleteCron removes a cron job.
func (c *Client) DeleteCron(ctx context.Context, cronID string) error {
	url := fmt.Sprintf("%s/cron/%s", c.baseURL, cronID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete cron job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete cron request failed with status: %d", resp.StatusCode)
	}
	return nil
}

// RunCronNow triggers an immediate activation of a cron job.
func (c *Client) RunCronNow(ctx context.Context, cronID string) (*CronRun, error) {
	var run CronRun
	if err := c.postJSON(ctx, fmt.Sprintf("/cron/%s/run", cronID), struct{}{}, &run); err != nil {
		return nil, fmt.Errorf("failed to trigger cron job: %w", err)
	}
	return &run, nil
}

// ListCronRuns lists the recorded activations of a cron job.
func (c *Client) ListCronRuns(ctx context.Context, cronID string) ([]CronRun, error) {
	var cronRuns []CronRun
	if err := c.getJSON(ctx, fmt.Sprintf("/cron/%s/runs", cronID), &cronRuns); err != nil {
		return nil, fmt.Errorf("failed to list cron runs: %w", err)
	}
	return cronRuns, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
