package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Options struct {
	APIKey         string
	EmbeddingModel string
	TextModel      string
}

// GeminiClient embeds profile text and writes personality summaries.
type GeminiClient struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	embedder *genai.EmbeddingModel
	log      *logger.Logger
}

func NewGeminiClient(ctx context.Context, opts Options, log *logger.Logger) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.TextModel)
	model.SetTemperature(0.7)

	return &GeminiClient{
		client:   client,
		model:    model,
		embedder: client.EmbeddingModel(opts.EmbeddingModel),
		log:      log.With("component", "gemini"),
	}, nil
}

func (c *GeminiClient) Close() {
	_ = c.client.Close()
}

// Embed returns the embedding vector of text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding")
	}
	out := make([]float64, len(res.Embedding.Values))
	for i, v := range res.Embedding.Values {
		out[i] = float64(v)
	}
	return out, nil
}

// SummarizePersonality writes a short description of the trait scores. When
// the API is unavailable a template summary is returned instead.
func (c *GeminiClient) SummarizePersonality(ctx context.Context, p domain.Personality) (string, error) {
	prompt := fmt.Sprintf(`
		Describe a person from their Big Five personality scores (0-100).
		%s

		Task: Write a friendly two sentence summary for their public profile.
		Speak in the second person. Do not quote the numbers.
		Output: Just the summary text.
	`, traitLines(p))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Warn("gemini unavailable, using fallback summary", "error", err)
		return FallbackSummary(p), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return FallbackSummary(p), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return FallbackSummary(p), nil
	}
	return summary, nil
}

type trait struct {
	name  string
	score *float64
	high  string
	low   string
}

func traits(p domain.Personality) []trait {
	return []trait{
		{"Openness", p.Openness, "curious and open to new ideas", "practical and grounded"},
		{"Conscientiousness", p.Conscientiousness, "organised and dependable", "flexible and spontaneous"},
		{"Extraversion", p.Extraversion, "outgoing and energetic", "calm and reflective"},
		{"Agreeableness", p.Agreeableness, "warm and cooperative", "direct and independent"},
		{"Neuroticism", p.Neuroticism, "emotionally sensitive", "steady under pressure"},
	}
}

func traitLines(p domain.Personality) string {
	var sb strings.Builder
	for _, t := range traits(p) {
		if t.score == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s: %.0f\n", t.name, *t.score)
	}
	return sb.String()
}

// FallbackSummary builds a summary from the strongest traits without calling the API.
func FallbackSummary(p domain.Personality) string {
	var words []string
	for _, t := range traits(p) {
		if t.score == nil {
			continue
		}
		switch {
		case *t.score >= 60:
			words = append(words, t.high)
		case *t.score <= 40:
			words = append(words, t.low)
		}
	}
	if len(words) == 0 {
		return "You have a balanced personality."
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return "You come across as " + strings.Join(words, " and ") + "."
}
