package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nurudeen19/rag-fortress/internal/application/ports"
)

// Compile-time check that OpenAIEmbedder implements EmbeddingService.
var _ ports.EmbeddingService = (*OpenAIEmbedder)(nil)

const openAIEmbedURL = "https://api.openai.com/v1/embeddings"

// OpenAIEmbedder implements EmbeddingService against the OpenAI embeddings
// REST API.
type OpenAIEmbedder struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIEmbedder builds the adapter. model is usually
// "text-embedding-3-small".
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Name identifies this provider.
func (s *OpenAIEmbedder) Name() string { return "openai" }

type openAIEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Embed returns one vector per input text, in input order.
func (s *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("openai embed: OPENAI_API_KEY not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(openAIEmbedRequest{Model: s.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("openai embed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEmbedURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai embed: build HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("openai embed: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("openai embed: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("openai embed: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIEmbedResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("openai embed: API error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("openai embed: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var out openAIEmbedResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("openai embed: unmarshal response: %w", err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d inputs", len(out.Data), len(texts))
	}

	// The API documents data in input order, but index is authoritative.
	vectors := make([][]float32, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("openai embed: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
