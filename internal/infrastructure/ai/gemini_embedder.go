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

// Compile-time check that GeminiEmbedder implements EmbeddingService.
var _ ports.EmbeddingService = (*GeminiEmbedder)(nil)

const geminiEmbedURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:batchEmbedContents?key=%s"

// GeminiEmbedder implements EmbeddingService against the Gemini
// batchEmbedContents REST API.
type GeminiEmbedder struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiEmbedder builds the adapter. model is usually "text-embedding-004".
func NewGeminiEmbedder(apiKey, model string) *GeminiEmbedder {
	return &GeminiEmbedder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Name identifies this provider.
func (s *GeminiEmbedder) Name() string { return "gemini" }

type geminiEmbedRequest struct {
	Requests []geminiEmbedOne `json:"requests"`
}

type geminiEmbedOne struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Embed returns one vector per input text, in input order.
func (s *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("gemini embed: GEMINI_API_KEY not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	payload := geminiEmbedRequest{Requests: make([]geminiEmbedOne, len(texts))}
	for i, t := range texts {
		payload.Requests[i] = geminiEmbedOne{
			Model:   "models/" + s.model,
			Content: geminiContent{Parts: []geminiPart{{Text: t}}},
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiEmbedURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: build HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gemini embed: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("gemini embed: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiEmbedResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("gemini embed: API error (%s): %s", errResp.Error.Status, errResp.Error.Message)
		}
		return nil, fmt.Errorf("gemini embed: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var out geminiEmbedResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("gemini embed: unmarshal response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d inputs", len(out.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(out.Embeddings))
	for i, e := range out.Embeddings {
		if len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty vector at index %d", i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}
