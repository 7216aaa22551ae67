package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiClient implements Collaborator against the Google Gemini API.
type GeminiClient struct {
	apiKey    string
	modelName string
	examples  []Example

	client *genai.Client
	model  *genai.GenerativeModel
	log    *logrus.Logger
}

// NewGeminiClient creates a Gemini-backed collaborator. The underlying API
// client is created lazily on first use so construction never needs network.
func NewGeminiClient(apiKey, modelName string, examples []Example, logger *logrus.Logger) *GeminiClient {
	if logger == nil {
		logger = logrus.New()
	}
	if len(examples) == 0 {
		examples = DefaultExamples
	}
	return &GeminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		examples:  examples,
		log:       logger,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	c.model = client.GenerativeModel(c.modelName)
	return nil
}

// Categorize asks the model for a single category label, with the few-shot
// example set prepended for context.
func (c *GeminiClient) Categorize(ctx context.Context, description string, amount decimal.Decimal, note string) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful bookkeeper that assigns categories to business expenses. ")
	sb.WriteString("Respond ONLY with the best-fitting category name.\n\n")
	for _, ex := range c.examples {
		fmt.Fprintf(&sb, "%s\nCategory: %s\n\n", ex.Prompt, ex.Category)
	}
	fmt.Fprintf(&sb, "Description: %s. Amount: %s. Note: %s\nCategory:",
		description, amount.StringFixed(2), note)

	text, err := c.generate(ctx, sb.String())
	if err != nil {
		return "", err
	}

	// The model sometimes answers with "Category: X" despite instructions.
	category := strings.TrimSpace(text)
	category = strings.TrimPrefix(category, "Category:")
	if idx := strings.IndexByte(category, '\n'); idx >= 0 {
		category = category[:idx]
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return "", fmt.Errorf("empty category in Gemini response")
	}

	c.log.WithFields(logrus.Fields{
		"description": description,
		"category":    category,
	}).Debug("Gemini suggested category")
	return category, nil
}

// NormalizeBatch asks the model to collapse near-duplicate vendor keys into
// canonical names, returned as a JSON object mapping input to canonical name.
func (c *GeminiClient) NormalizeBatch(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("The following are vendor names extracted from bank transactions. ")
	sb.WriteString("Some refer to the same real-world vendor with different garbling. ")
	sb.WriteString("Group them and pick one canonical name per group. ")
	sb.WriteString("Respond ONLY with a JSON object mapping every input name to its canonical name, no other text.\n\nNames:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s\n", name)
	}

	text, err := c.generate(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	mapping, err := parseMapping(text)
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// parseMapping extracts a string-to-string JSON object from a model response,
// tolerating markdown code fences around the payload.
func parseMapping(text string) (map[string]string, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var mapping map[string]string
	if err := json.Unmarshal([]byte(cleaned), &mapping); err != nil {
		return nil, fmt.Errorf("response is not a valid name mapping: %w", err)
	}
	return mapping, nil
}
