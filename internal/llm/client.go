package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Config holds Gemini client parameters.
type Config struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Temperature    float64
}

// Client implements Generator and Embedder against the Gemini API.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	temperature    float64
	logger         *slog.Logger
	callLog        *CallLog
}

// New creates a Gemini-backed client. callLog may be nil to disable call
// logging.
func New(ctx context.Context, cfg Config, logger *slog.Logger, callLog *CallLog) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		logger:         logger.With("system", "llm"),
		callLog:        callLog,
	}, nil
}

// GenerateJSON requests schema-constrained JSON output from the text model.
func (c *Client) GenerateJSON(ctx context.Context, hint string, schema *genai.Schema, contextJSON string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(c.temperature)),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		SystemInstruction: genai.NewContentFromText(hint, genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(contextJSON, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.record(ctx, hint, contextJSON, "", false)
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	c.record(ctx, hint, contextJSON, text, true)
	return text, nil
}

// Embed produces an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}

// record logs the call to the audit table. Failures are logged, never raised;
// call logging must not affect resolution.
func (c *Client) record(ctx context.Context, hint, contextText, responseText string, success bool) {
	if c.callLog == nil {
		return
	}

	entry := CallEntry{
		ConversationID: ConversationIDFromContext(ctx),
		Provider:       "gemini",
		Model:          c.model,
		Hint:           hint,
		ContextText:    contextText,
		ResponseText:   responseText,
		Success:        success,
	}

	if err := c.callLog.Record(ctx, entry); err != nil {
		c.logger.Warn("llm call log failed", "error", err)
	}
}
