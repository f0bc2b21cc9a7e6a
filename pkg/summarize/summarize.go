// Package summarize derives call summaries and sentiment assessments
// from transcripts using the OpenAI chat completions API.
//
// Sentiment uses a strict JSON-schema structured output so the model's
// answer parses into [enrich.Sentiment] without repair heuristics.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/voiceline/voiceline/pkg/enrich"
)

const defaultModel = "gpt-4o-mini"

// Config configures the client.
type Config struct {
	// APIKey is the OpenAI API key. Required.
	APIKey string

	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL string

	// Model is the chat model. Default "gpt-4o-mini".
	Model string
}

// Client implements enrich.Summarizer and enrich.SentimentAnalyzer.
type Client struct {
	oa    openai.Client
	model string
}

var (
	_ enrich.Summarizer        = (*Client)(nil)
	_ enrich.SentimentAnalyzer = (*Client)(nil)
)

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("summarize: api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{oa: openai.NewClient(opts...), model: model}, nil
}

// Summarize condenses a call transcript into a few sentences.
// An empty transcript summarizes to the empty string without an API call.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", nil
	}
	resp, err := c.oa.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You summarize phone call transcripts for a CRM timeline. " +
				"Write two to three sentences covering the caller's intent, key facts, and the outcome."),
			openai.UserMessage(transcript),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summarize: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// sentimentSchema is the strict output schema for AnalyzeSentiment.
// OpenAI strict mode requires additionalProperties to be the false schema.
var sentimentSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"sentiment": {
			Type: "string",
			Enum: []any{"positive", "neutral", "negative"},
		},
		"score": {
			Type:        "number",
			Description: "Confidence in the sentiment label, between 0 and 1.",
		},
		"highlights": {
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
	},
	Required:             []string{"sentiment", "score", "highlights"},
	AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
}

// AnalyzeSentiment assesses the overall sentiment of a transcript.
// An empty transcript is neutral with score 0.5 and no highlights.
func (c *Client) AnalyzeSentiment(ctx context.Context, transcript string) (enrich.Sentiment, error) {
	if strings.TrimSpace(transcript) == "" {
		return enrich.Sentiment{Label: "neutral", Score: 0.5}, nil
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You analyze phone call transcripts. Judge the caller's overall " +
				"sentiment and quote up to three short notable moments as highlights."),
			openai.UserMessage(transcript),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "call_sentiment",
					Description: param.NewOpt("Sentiment assessment of a call transcript"),
					Schema:      any(sentimentSchema),
					Strict:      param.NewOpt(true),
				},
			},
		},
	}

	resp, err := c.oa.Chat.Completions.New(ctx, params)
	if err != nil {
		return enrich.Sentiment{}, fmt.Errorf("sentiment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return enrich.Sentiment{}, errors.New("sentiment: no choices returned")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return enrich.Sentiment{}, fmt.Errorf("sentiment: blocked: %s", choice.Message.Refusal)
	}

	var out enrich.Sentiment
	if err := json.Unmarshal([]byte(choice.Message.Content), &out); err != nil {
		return enrich.Sentiment{}, fmt.Errorf("sentiment: parse model output: %w", err)
	}
	if out.Score < 0 {
		out.Score = 0
	} else if out.Score > 1 {
		out.Score = 1
	}
	return out, nil
}
