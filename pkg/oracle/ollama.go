package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type OllamaOracle struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ Oracle = &OllamaOracle{}

func NewOllamaOracle(baseURL, modelName string, timeout time.Duration) *OllamaOracle {
	return &OllamaOracle{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (o *OllamaOracle) GenerateReply(ctx context.Context, priorContext []Turn, current string) (string, error) {
	messages := make([]ollamaMessage, 0, len(priorContext)+1)
	for _, turn := range priorContext {
		role := turn.Role
		// Ollama speaks the OpenAI vocabulary.
		if role == RoleModel {
			role = "assistant"
		}
		messages = append(messages, ollamaMessage{
			Role:    role,
			Content: turn.Text,
		})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: current})

	return o.chat(ctx, messages)
}

func (o *OllamaOracle) GenerateTitle(ctx context.Context, seedText string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a short title (5 words or fewer, plain text, no quotes) for a conversation that starts with: %s",
		seedText,
	)
	title, err := o.chat(ctx, []ollamaMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	return sanitizeTitle(title), nil
}

func (o *OllamaOracle) chat(ctx context.Context, messages []ollamaMessage) (string, error) {
	reqPayload := ollamaChatRequest{
		Model:    o.ModelName,
		Messages: messages,
		Stream:   false,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return ollamaResp.Message.Content, nil
}
