package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"renju/communication"
	"renju/experiments/metrics"
	"renju/game"
	"renju/searcher/agent"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client talks to an agent server
type Client struct {
	serverURL string
	http      *http.Client
}

func New(serverURL string, timeout time.Duration) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

// Ping returns the board size the server plays on
func (c *Client) Ping(ctx context.Context) (int, error) {
	var resp communication.PingResponse
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Size, nil
}

func (c *Client) Move(ctx context.Context, moves []int) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	err := c.do(ctx, http.MethodPost, "/move", communication.MoveRequest{Moves: moves}, &resp)
	return resp, err
}

func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/reset", nil, nil)
}

// StatusError is returned for any non-2xx reply
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server replied %d: %s", e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// RemoteAgent plays the moves chosen by an agent server
type RemoteAgent struct {
	client *Client
}

var _ agent.Agent = (*RemoteAgent)(nil)

func NewRemoteAgent(c *Client) *RemoteAgent {
	return &RemoteAgent{client: c}
}

func (a *RemoteAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	start := time.Now()
	resp, err := a.client.Move(context.Background(), board.Moves())
	if err != nil {
		return -1, metrics.SearchMetric{}, err
	}
	if !board.IsEmpty(resp.Move) {
		return -1, metrics.SearchMetric{}, fmt.Errorf("server chose unavailable move %d", resp.Move)
	}
	return resp.Move, metrics.SearchMetric{Duration: time.Since(start), Simulations: resp.Simulations}, nil
}

func (a *RemoteAgent) Reset() {
	if err := a.client.Reset(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to reset remote agent")
	}
}
