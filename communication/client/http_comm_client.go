package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"deepchess/communication"
	"deepchess/searcher"
)

var ErrEngineFailed = errors.New("engine reported an error")

// Client talks to a move server over HTTP.
type Client struct {
	serverURL string
	http      *http.Client
}

func NewClient(serverURL string, timeout time.Duration) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: timeout},
	}
}

// Move asks the named engine for a move in the given position. An engine-side
// failure is returned as ErrEngineFailed along with the decoded response.
func (c *Client) Move(ctx context.Context, engine, fen string, budget searcher.Budget) (communication.MoveResponse, error) {
	var response communication.MoveResponse

	data, err := json.Marshal(communication.NewMoveRequest(fen, budget))
	if err != nil {
		return response, fmt.Errorf("failed to encode move request: %w", err)
	}
	endpoint := c.serverURL + "/api/chess/engines/" + url.PathEscape(engine)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return response, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return response, fmt.Errorf("failed to reach %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return response, fmt.Errorf("unexpected status %s from %s", resp.Status, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return response, fmt.Errorf("failed to decode move response: %w", err)
	}
	if response.Status != communication.StatusSuccess {
		return response, fmt.Errorf("%w: %s", ErrEngineFailed, response.Message)
	}
	return response, nil
}

// Engines lists the engine names served by the server.
func (c *Client) Engines(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/chess/engines", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var engines communication.EnginesResponse
	if err := json.NewDecoder(resp.Body).Decode(&engines); err != nil {
		return nil, fmt.Errorf("failed to decode engine list: %w", err)
	}
	return engines.Engines, nil
}
