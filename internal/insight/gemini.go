package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/mindtrace/mindtrace/internal/model"
)

// ErrEmptyResponse is returned when the model answers with no usable
// candidate.
var ErrEmptyResponse = errors.New("insight: empty model response")

const analysisPrompt = `You are a digital wellness coach. A user logged one day of app usage:

Apps used: %s
Screen time: %d minutes
Reflection: %q
Emotional tags: %s

Respond with JSON only, using exactly these keys:
{
  "analysis": "two or three sentences analyzing their digital habits",
  "suggestions": ["three concrete suggestions"],
  "microHabits": ["two small habits to adopt tomorrow"],
  "motivationalTip": "one encouraging sentence"
}`

// Gemini asks a Gemini model for the analysis.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini creates a Gemini analyzer against the public Gemini API.
func NewGemini(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  modelName,
		logger: logger,
	}, nil
}

// Analyze generates an analysis for the entry. The model is asked for
// JSON output; a response that does not decode into the expected shape
// is an error, which the caller degrades to the fallback payload.
func (g *Gemini) Analyze(ctx context.Context, entry *model.Entry) (*model.Analysis, error) {
	prompt := fmt.Sprintf(analysisPrompt,
		strings.Join(entry.Apps, ", "),
		entry.ScreenTimeMinutes,
		entry.Reflection,
		strings.Join(entry.Tags, ", "),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	analysis, err := decodeAnalysis(text)
	if err != nil {
		g.logger.Warn("model returned undecodable analysis", slog.String("error", err.Error()))
		return nil, err
	}
	return analysis, nil
}

// decodeAnalysis parses model output into an Analysis, tolerating a
// markdown code fence around the JSON body.
func decodeAnalysis(text string) (*model.Analysis, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if analysis.Analysis == "" {
		return nil, errors.New("decode analysis: missing analysis text")
	}
	return &analysis, nil
}
