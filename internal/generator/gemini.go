package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// GeminiOptions selects the backend. An API key uses the Gemini API;
// otherwise Project (and Region) select Vertex AI with Application Default
// Credentials.
type GeminiOptions struct {
	APIKey  string
	Project string
	Region  string
	Model   string
}

// GeminiClient wraps the Google GenAI client.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client for the configured backend.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{}
	switch {
	case opts.APIKey != "":
		cfg.APIKey = opts.APIKey
		cfg.Backend = genai.BackendGeminiAPI
	case opts.Project != "":
		region := opts.Region
		if region == "" {
			region = defaultRegion
		}
		cfg.Project = opts.Project
		cfg.Location = region
		cfg.Backend = genai.BackendVertexAI
	default:
		return nil, errors.New("no Gemini credentials: set GEMINI_API_KEY or GCP_PROJECT_ID")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{client: client, modelName: model}, nil
}

// Generate sends the request to Gemini and parses the structured answer.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (*Generated, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: Prompt(req)}},
		}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(req.Window),
		},
	)
	if err != nil {
		return nil, &GenerationError{Stage: StageRequest, Err: fmt.Errorf("gemini generate: %w", err)}
	}

	text := resp.Text()
	if text == "" {
		return nil, &GenerationError{Stage: StageParse, Err: errors.New("empty gemini response")}
	}
	return ParseResponse([]byte(text))
}

// Close releases resources held by the client.
func (g *GeminiClient) Close() error {
	return nil
}

// ParseResponse decodes a model answer.
func ParseResponse(data []byte) (*Generated, error) {
	var out Generated
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &GenerationError{Stage: StageParse, Err: fmt.Errorf("parse recipe JSON: %w\nraw response: %s", err, data)}
	}
	if len(out.Entries) == 0 {
		return nil, &GenerationError{Stage: StageValidate, Err: errors.New("recipe has no keyframes")}
	}
	return &out, nil
}
