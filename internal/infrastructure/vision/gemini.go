// Package vision implements the Describer capability on top of Google's
// Gemini vision models.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

var describePrompt = strings.TrimSpace(dedent.Dedent(`
	Analyze this image and identify the single main physical object.
	Be specific and realistic with your estimates.

	Respond in JSON format with these fields:
	- name: the object name, 1-3 words, be specific (e.g. "Dining Chair")
	- color: the main color, one word
	- height_in: estimated height in inches, a single number
	- width_in: estimated width in inches, a single number
	- depth_in: estimated depth in inches, a single number
	- material: the primary material, 1-2 words

	Example response:
	{"name": "Dining Chair", "color": "Brown", "height_in": 35, "width_in": 18, "depth_in": 20, "material": "Wood"}

	Respond ONLY with the JSON object, no markdown or other text.`))

// Options configures the Gemini describer.
type Options struct {
	APIKey string
	// Model overrides the default Gemini model name.
	Model string
}

// GeminiDescriber estimates object attributes from a cropped image using
// the Gemini API.
type GeminiDescriber struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewGeminiDescriber creates a Gemini-backed describer.
func NewGeminiDescriber(ctx context.Context, opts Options, logger zerolog.Logger) (*GeminiDescriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	return &GeminiDescriber{
		client: client,
		model:  model,
		logger: logger.With().Str("component", "vision").Logger(),
	}, nil
}

// Describe implements domain.Describer.
func (g *GeminiDescriber) Describe(ctx context.Context, crop []byte) (domain.ObjectDescription, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(describePrompt),
		{InlineData: &genai.Blob{Data: crop, MIMEType: "image/jpeg"}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return domain.ObjectDescription{}, fmt.Errorf("%w: %v", domain.ErrDescriberFailure, err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return domain.ObjectDescription{}, fmt.Errorf("%w: empty response", domain.ErrDescriberFailure)
	}

	text := result.Text()
	g.logger.Debug().Str("response", text).Msg("gemini vision response")

	desc, err := parseDescription(text)
	if err != nil {
		return domain.ObjectDescription{}, fmt.Errorf("%w: %v", domain.ErrDescriberFailure, err)
	}
	return desc, nil
}

// wireDescription is the JSON shape the prompt asks the model for.
type wireDescription struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	HeightIn float64 `json:"height_in"`
	WidthIn  float64 `json:"width_in"`
	DepthIn  float64 `json:"depth_in"`
	Material string  `json:"material"`
}

func parseDescription(text string) (domain.ObjectDescription, error) {
	// Clean up the response - remove markdown code blocks if present
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var wire wireDescription
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return domain.ObjectDescription{}, fmt.Errorf("failed to parse response JSON: %w (response: %s)", err, text)
	}
	if wire.Name == "" {
		return domain.ObjectDescription{}, fmt.Errorf("response has no object name (response: %s)", text)
	}

	return domain.ObjectDescription{
		Name:     wire.Name,
		Color:    wire.Color,
		Height:   positiveOrZero(wire.HeightIn),
		Width:    positiveOrZero(wire.WidthIn),
		Depth:    positiveOrZero(wire.DepthIn),
		Material: wire.Material,
	}, nil
}

// positiveOrZero guards against the model returning negative estimates.
func positiveOrZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
