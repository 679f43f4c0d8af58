package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client wraps the Gemini embedding model used when a venture is published.
// The model name doubles as the stored embedding model identifier so KNN
// queries and banner aggregates stay pinned to one embedding generation.
type Client struct {
	client  *genai.Client
	model   *genai.EmbeddingModel
	name    string
	version string
}

func NewClient(apiKey, modelName, modelVersion string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   client.EmbeddingModel(modelName),
		name:    modelName,
		version: modelVersion,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// EmbedVenture embeds a venture's title and pitch as one document and
// returns the vector with the model+version it was produced by.
func (c *Client) EmbedVenture(ctx context.Context, title, pitch string) ([]float32, string, string, error) {
	res, err := c.model.EmbedContent(ctx, genai.Text(title+"\n\n"+pitch))
	if err != nil {
		return nil, "", "", fmt.Errorf("embed venture: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, "", "", fmt.Errorf("embed venture: empty embedding response")
	}
	return res.Embedding.Values, c.name, c.version, nil
}
