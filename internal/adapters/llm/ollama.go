package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// OllamaAdapter implements ports.LLMService using the Ollama chat API.
// Useful for running the assistant against a local model without any
// hosted-API credentials.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaAdapter creates a new Ollama chat adapter.
func NewOllamaAdapter(baseURL, model string) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // Local models can be slow
		},
	}
}

// ollamaChatMessage is one turn in the Ollama chat API format.
type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatRequest is the Ollama chat API request.
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

// ollamaChatResponse is the Ollama chat API response.
type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// Chat produces a completion for the conversation under the given system
// instruction. Ollama has no out-of-band instruction slot, so the system
// text leads the message list.
func (a *OllamaAdapter) Chat(ctx context.Context, system string, messages []entities.Message) (string, error) {
	chatMessages := make([]ollamaChatMessage, 0, len(messages)+1)
	if system != "" {
		chatMessages = append(chatMessages, ollamaChatMessage{Role: entities.RoleSystem, Content: system})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, ollamaChatMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := ollamaChatRequest{
		Model:    a.model,
		Messages: chatMessages,
		Stream:   false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return chatResp.Message.Content, nil
}
