// Package llm provides generation backend adapters.
// Clean Architecture: Adapters implementing ports.LLMService.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "models/gemini-2.5-flash"

	// Low temperature keeps answers close to the retrieved shop documents.
	geminiTemperature = 0.1
)

// GeminiAdapter implements ports.LLMService using the Gemini generateContent API.
type GeminiAdapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiAdapter creates a new Gemini chat adapter.
func NewGeminiAdapter(baseURL, apiKey, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &GeminiAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat produces a completion for the conversation under the given system instruction.
func (a *GeminiAdapter) Chat(ctx context.Context, system string, messages []entities.Message) (string, error) {
	reqBody := geminiGenerateRequest{
		Contents:         make([]geminiContent, 0, len(messages)),
		GenerationConfig: geminiGenerationConfig{Temperature: geminiTemperature},
	}
	if system != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, m := range messages {
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  geminiRole(m.Role),
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var genResp geminiGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if genResp.Error != nil && genResp.Error.Message != "" {
			return "", fmt.Errorf("Gemini returned status %d: %s", resp.StatusCode, genResp.Error.Message)
		}
		return "", fmt.Errorf("Gemini returned status %d", resp.StatusCode)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// geminiRole maps domain roles onto the Gemini wire roles.
func geminiRole(role string) string {
	if role == entities.RoleAssistant {
		return "model"
	}
	return "user"
}
