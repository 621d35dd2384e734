package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxOutputTokens = 1024

	temperature = 0.1
)

// Client is a parser.Completer backed by the Gemini generateContent API.
type Client struct {
	svc             *generativelanguage.Service
	model           string
	maxOutputTokens int64
}

type Config struct {
	APIKey          string
	Model           string
	Endpoint        string // Overrides the public API base URL when set
	MaxOutputTokens int64
}

func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	clientOpts = append(clientOpts, opts...)

	svc, err := generativelanguage.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini service: %w", err)
	}

	return &Client{
		svc:             svc,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

// Complete sends prompt as a single user turn and returns the text of the
// first candidate. It returns an empty string when the model produced none.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role:  "user",
				Parts: []*generativelanguage.Part{{Text: prompt}},
			},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}

	resp, err := c.svc.Models.GenerateContent(modelName(c.model), req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}

// Model describes a model available to the configured API key.
type Model struct {
	Name        string
	DisplayName string
	Methods     []string
}

func (m Model) Supports(method string) bool {
	for _, got := range m.Methods {
		if got == method {
			return true
		}
	}

	return false
}

// ListModels returns every model visible to the API key.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model

	err := c.svc.Models.List().PageSize(100).Pages(ctx, func(page *generativelanguage.ListModelsResponse) error {
		for _, m := range page.Models {
			models = append(models, Model{
				Name:        m.Name,
				DisplayName: m.DisplayName,
				Methods:     m.SupportedGenerationMethods,
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	return models, nil
}

func modelName(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}

	return "models/" + model
}
