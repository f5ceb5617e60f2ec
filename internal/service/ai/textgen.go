package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atelierlab/art-coach/backend/internal/model/chat"
)

// DefaultTextGenTimeout bounds one raw-text inference call.
const DefaultTextGenTimeout = 60 * time.Second

// maxTextGenResponse caps how much of a reply body is read.
const maxTextGenResponse = 4 << 20

// TextGenGateway implements the raw-text strategy: the history is flattened
// into a single transcript and posted to a hosted text-generation endpoint.
// Remote failures degrade into a diagnostic reply instead of an error so the
// session stays usable.
type TextGenGateway struct {
	url        string
	httpClient *http.Client
}

// NewTextGenGateway creates the raw-text strategy for the given endpoint
// URL. A non-positive timeout falls back to DefaultTextGenTimeout.
func NewTextGenGateway(url string, timeout time.Duration) *TextGenGateway {
	if timeout <= 0 {
		timeout = DefaultTextGenTimeout
	}
	return &TextGenGateway{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete posts the flattened transcript and normalizes whatever comes
// back: a list with generated_text, a dict with an error message, or an
// unrecognized payload stringified wholesale.
func (g *TextGenGateway) Complete(ctx context.Context, apiKey string, history []chat.Turn) (string, error) {
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	promptText := FlattenTranscript(history)
	body, err := json.Marshal(map[string]string{"inputs": promptText})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error: could not reach the inference endpoint (%v). Please try again.", err), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxTextGenResponse))
	if err != nil {
		return fmt.Sprintf("Error: failed reading the inference response (%v).", err), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Sprintf("Error %d from the inference endpoint: %s", resp.StatusCode, strings.TrimSpace(string(raw))), nil
	}

	return normalizeTextGenPayload(raw, promptText), nil
}

// normalizeTextGenPayload extracts the generated text from the three payload
// shapes the endpoint is known to produce.
func normalizeTextGenPayload(raw []byte, promptText string) string {
	var generations []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &generations); err == nil && len(generations) > 0 && generations[0].GeneratedText != "" {
		// Some endpoints echo the prompt ahead of the completion.
		reply := strings.TrimPrefix(generations[0].GeneratedText, promptText)
		return strings.TrimSpace(reply)
	}

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &failure); err == nil && failure.Error != "" {
		return failure.Error
	}

	return strings.TrimSpace(string(raw))
}

// FlattenTranscript renders the history as a newline-delimited plain-text
// transcript with a trailing cue for the model to continue.
func FlattenTranscript(history []chat.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		switch turn.Role {
		case chat.RoleSystem:
			b.WriteString(turn.Text)
			b.WriteString("\n")
		case chat.RoleUser:
			b.WriteString("User: ")
			b.WriteString(turn.Text)
			b.WriteString("\n")
		case chat.RoleAssistant:
			if turn.Text == "" {
				continue
			}
			b.WriteString("Coach: ")
			b.WriteString(turn.Text)
			b.WriteString("\n")
		}
	}
	b.WriteString("Coach:")
	return b.String()
}
