// Package openai implements domain.NarrativeGenerator using the OpenAI chat
// completions API. Responses are validated against a JSON schema before use,
// and a cache decorator keeps repeat alerts for the same conditions from
// burning tokens.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	model          = "gpt-4o-mini"
	systemPrompt   = "You are a helpful assistant that predicts weather alerts for farmers."
)

// narrativeSchema constrains the model output. Recommendations may arrive as
// a single string or a list; the decoder normalizes both to a list.
const narrativeSchema = `{
	"type": "object",
	"required": ["alert", "impact", "recommendations"],
	"properties": {
		"alert": {"type": "string", "minLength": 1},
		"impact": {"type": "string"},
		"recommendations": {
			"anyOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("narrative.json", narrativeSchema)

// Client calls the OpenAI chat completions API to enrich alerts with a
// farmer-facing narrative.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenAI narrative client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Generate asks the model for a narrative describing the alert. The model is
// instructed to answer with a bare JSON object; anything that fails schema
// validation is rejected.
func (c *Client) Generate(ctx context.Context, record domain.AlertRecord) (*domain.Narrative, error) {
	raw, err := c.complete(ctx, buildPrompt(record))
	if err != nil {
		c.metrics.AIRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	narrative, err := decodeNarrative(raw)
	if err != nil {
		c.metrics.AIRequests.WithLabelValues("invalid").Inc()
		c.logger.Warn("ai response failed validation", "error", err, "alert_id", record.AlertID)
		return nil, err
	}

	narrative.EnhancedMessage = enhancedMessage(record, narrative)
	c.metrics.AIRequests.WithLabelValues("success").Inc()
	return narrative, nil
}

func buildPrompt(record domain.AlertRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the following weather data for %s, %s, %s (lat %.4f, lon %.4f):\n",
		record.Location.Village, record.Location.District, record.Location.State, record.Location.Coordinates[0], record.Location.Coordinates[1])
	fmt.Fprintf(&b, "- Current temperature: %.1f°C\n", record.Weather.TemperatureC)
	fmt.Fprintf(&b, "- Wind speed: %.1f km/h\n", record.Weather.WindSpeedKmh)
	fmt.Fprintf(&b, "- Expected rainfall over the next 3 days: %.1fmm\n", record.Weather.RainfallMm)
	fmt.Fprintf(&b, "The farmer is growing %s, currently at the %s stage (%s season).\n",
		record.Crop.Name, record.Crop.Stage, record.Crop.Season)
	b.WriteString(`Predict any potential weather alerts for this crop in the next 7 days.
Consider the crop's sensitivity to temperature, rainfall, and wind at its current stage.
Format your response as a JSON object with the following structure:
{"alert": "Description of the alert", "impact": "Description of the impact on crops", "recommendations": ["Recommended actions for farmers"]}
Do not include any additional text outside of the JSON object.`)
	return b.String()
}

func (c *Client) complete(ctx context.Context, prompt string) ([]byte, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai API error: status %d: %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai response has no choices")
	}
	return []byte(chatResp.Choices[0].Message.Content), nil
}

// decodeNarrative validates the model output against the narrative schema and
// converts it to the domain type.
func decodeNarrative(raw []byte) (*domain.Narrative, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ai response is not JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("ai response schema: %w", err)
	}

	obj := doc.(map[string]any)
	narrative := &domain.Narrative{
		Alert: obj["alert"].(string),
	}
	if impact, ok := obj["impact"].(string); ok {
		narrative.Impact = impact
	}
	switch recs := obj["recommendations"].(type) {
	case string:
		narrative.Recommendations = []string{recs}
	case []any:
		for _, r := range recs {
			if s, ok := r.(string); ok {
				narrative.Recommendations = append(narrative.Recommendations, s)
			}
		}
	}
	return narrative, nil
}

// enhancedMessage formats the channel-facing AI message. The impact clause is
// skipped when the model reports no impact.
func enhancedMessage(record domain.AlertRecord, n *domain.Narrative) string {
	msg := fmt.Sprintf("🤖 AI Weather Alert for %s, %s: %s", record.Location.Village, record.Location.District, n.Alert)
	impact := strings.ToLower(strings.TrimSpace(n.Impact))
	if impact != "" && impact != "none" && impact != "n/a" {
		msg += fmt.Sprintf(" 🌾 Crop Impact (%s - %s): %s", record.Crop.Name, record.Crop.Stage, n.Impact)
	}
	return msg
}

// OpenAI API request/response types.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
