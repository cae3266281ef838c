package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Generator turns a prompt into model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaGenerator runs prompts against a local Ollama model.
type OllamaGenerator struct {
	llm     llms.Model
	timeout time.Duration
}

func NewOllamaGenerator(serverURL, model string, timeout time.Duration) (*OllamaGenerator, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaGenerator{llm: llm, timeout: timeout}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0))
}

// CategoryClassifier asks the model for a one-word category and matches the
// answer exactly against the two routed categories.
type CategoryClassifier struct {
	generator     Generator
	prompt        string
	technicalWord string
	paymentWord   string
}

func NewCategoryClassifier(generator Generator, prompt, technicalWord, paymentWord string) *CategoryClassifier {
	return &CategoryClassifier{
		generator:     generator,
		prompt:        prompt,
		technicalWord: strings.ToLower(technicalWord),
		paymentWord:   strings.ToLower(paymentWord),
	}
}

func (c *CategoryClassifier) RenderPrompt(text string) string {
	return strings.ReplaceAll(c.prompt, "{text}", text)
}

func (c *CategoryClassifier) ClassifyCategory(ctx context.Context, text string) (models.Category, error) {
	answer, err := c.generator.Generate(ctx, c.RenderPrompt(text))
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("category").Inc()
		return "", fmt.Errorf("%w: category model: %w", ErrClassification, err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case c.technicalWord:
		return models.CategoryTechnical, nil
	case c.paymentWord:
		return models.CategoryPayment, nil
	}
	return models.CategoryOther, nil
}

// Classifier combines the sentiment service and the category model.
type Classifier struct {
	sentiment *SentimentClient
	category  *CategoryClassifier
}

func NewClassifier(sentiment *SentimentClient, category *CategoryClassifier) *Classifier {
	return &Classifier{sentiment: sentiment, category: category}
}

func (c *Classifier) ClassifySentiment(ctx context.Context, text string) models.Sentiment {
	return c.sentiment.ClassifySentiment(ctx, text)
}

func (c *Classifier) ClassifyCategory(ctx context.Context, text string) (models.Category, error) {
	return c.category.ClassifyCategory(ctx, text)
}
