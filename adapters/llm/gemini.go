package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.2
	defaultMaxTokens      = 512
	defaultTimeoutSeconds = 30
)

const analysisPrompt = `You are a language study assistant. Analyze the word %q ` +
	`as used in %s and respond with ONLY a JSON object with these fields: ` +
	`"word", "reading" (pronunciation or reading aid, empty if not applicable), ` +
	`"definition" (one concise learner-friendly definition), ` +
	`"part_of_speech", and "examples" (two short example sentences).`

// GeminiAnalyzer implements the WordAnalyzer interface using Google's
// Gemini API. Each lookup is a single JSON-prompted generation; callers
// cache the result so a word is analyzed at most once per user.
type GeminiAnalyzer struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGeminiAnalyzer creates a new Gemini word analyzer
func NewGeminiAnalyzer(logger *zap.Logger) (*GeminiAnalyzer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client: client,
		logger: logger,
		model:  defaultModel,
	}, nil
}

// Analyze implements repositories.WordAnalyzer
func (g *GeminiAnalyzer) Analyze(ctx context.Context, word string, language string) (*entities.WordAnalysis, error) {
	if language == "" {
		language = "the source language"
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeoutSeconds*time.Second)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(analysisPrompt, word, language), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(defaultTemperature)),
		MaxOutputTokens: int32(defaultMaxTokens),
	}

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}
		g.logger.Warn("Failed to generate word analysis, retrying",
			zap.String("word", word),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("word analysis failed: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no analysis generated for %q", word)
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}

	analysis, err := parseAnalysis(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis for %q: %w", word, err)
	}
	if analysis.Word == "" {
		analysis.Word = word
	}
	return analysis, nil
}

// parseAnalysis extracts the JSON object from the model reply, tolerating
// markdown code fences around it.
func parseAnalysis(text string) (*entities.WordAnalysis, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var analysis entities.WordAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, err
	}
	if analysis.Definition == "" {
		return nil, fmt.Errorf("analysis missing definition")
	}
	return &analysis, nil
}
