package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/warp/solarwork/config"
	"github.com/warp/solarwork/worklog"
	"golang.org/x/oauth2"
)

// ErrUnavailable is returned when the assistant is not configured or the
// model endpoint cannot be reached.
var ErrUnavailable = errors.New("assistant unavailable")

// NoAnswer is returned as the answer when the model produced no text.
const NoAnswer = "I couldn't generate a response."

const systemPrompt = `You are an intelligent assistant for a solar installation team management app.
You have access to real-time data about projects, workers, and work logs.

DATA CONTEXT:
%s

YOUR CAPABILITIES:
1. Project Progress: Report on completion status, total tables vs completed, and progress percentage.
2. Worker Performance: Analyze earnings, hours worked, and specific contributions based on the logs.
3. Work Details: Answer questions about what happened on specific days (within the provided log range).

GUIDELINES:
- Be concise and professional.
- If asked about earnings, refer to the 'totalEarnings' in worker stats or sum up from relevant logs.
- If asked about a specific date not in the logs, state that you only have recent data.
- Use the provided project names and worker names accurately.
- Always reply in the user's language or English if unsure.`

// Client talks to a generateContent endpoint.
type Client struct {
	cfg  config.AssistantConfig
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a client. An access token takes precedence over an API
// key and is sent as an OAuth2 bearer token.
func NewClient(cfg config.AssistantConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		hc = oauth2.NewClient(context.Background(), ts)
		hc.Timeout = cfg.Timeout
	}
	return &Client{cfg: cfg, http: hc, log: log}
}

// Configured reports whether Ask can be attempted at all.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.Configured() && c.cfg.Endpoint != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content   `json:"systemInstruction"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask sends question with data and returns the model's answer.
func (c *Client) Ask(ctx context.Context, question string, data Context) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", worklog.Invalid(worklog.CodeFormIncomplete, "question", "question is required")
	}
	if !c.Configured() {
		return "", fmt.Errorf("%w: not configured", ErrUnavailable)
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: fmt.Sprintf(systemPrompt, dataJSON)}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: question}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.Endpoint, "/"), url.PathEscape(c.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AccessToken == "" {
		req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("assistant request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("assistant returned an error", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	var text strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return NoAnswer, nil
	}
	return text.String(), nil
}
