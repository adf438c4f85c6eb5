// Package embedding provides query embedding adapters.
// Clean Architecture: Adapters implementing ports.EmbeddingService.
// They know about provider specifics but the domain layer doesn't.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiEmbedModel = "models/text-embedding-004"
)

// GeminiAdapter implements ports.EmbeddingService using the Gemini
// embedContent API. Query embeddings must come from the same model family
// the external index builder used, or similarity scores are meaningless.
type GeminiAdapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiAdapter creates a new Gemini embedding adapter.
func NewGeminiAdapter(baseURL, apiKey, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiEmbedModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &GeminiAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// geminiEmbedRequest is the embedContent API request format.
type geminiEmbedRequest struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

// geminiEmbedResponse is the embedContent API response format.
type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed generates an embedding for a single text.
func (a *GeminiAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	var reqBody geminiEmbedRequest
	reqBody.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini returned status %d", resp.StatusCode)
	}

	var embedResp geminiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(embedResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("Gemini returned an empty embedding")
	}

	return embedResp.Embedding.Values, nil
}
