package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"

type geminiChatParts struct {
	Text string `json:"text"`
}

type geminiChatContent struct {
	Parts []*geminiChatParts `json:"parts"`
	Role  string             `json:"role"`
}

type geminiChatRequest struct {
	Contents []*geminiChatContent `json:"contents"`
}

type geminiChatCandidate struct {
	Content *geminiChatContent `json:"content"`
}

type geminiChatResponse struct {
	Candidates []*geminiChatCandidate `json:"candidates"`
}

type GeminiOracle struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiOracle(apiKey, model string, timeout time.Duration) *GeminiOracle {
	return &GeminiOracle{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (g *GeminiOracle) WithBaseURL(baseURL string) *GeminiOracle {
	g.baseURL = baseURL
	return g
}

func (g *GeminiOracle) GenerateReply(ctx context.Context, priorContext []Turn, current string) (string, error) {
	contents := make([]*geminiChatContent, 0, len(priorContext)+1)
	for _, turn := range priorContext {
		contents = append(contents, &geminiChatContent{
			Parts: []*geminiChatParts{{Text: turn.Text}},
			Role:  turn.Role,
		})
	}
	contents = append(contents, &geminiChatContent{
		Parts: []*geminiChatParts{{Text: current}},
		Role:  RoleUser,
	})

	return g.generate(ctx, &geminiChatRequest{Contents: contents})
}

func (g *GeminiOracle) GenerateTitle(ctx context.Context, seedText string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a short title (5 words or fewer, plain text, no quotes) for a conversation that starts with: %s",
		seedText,
	)
	title, err := g.generate(ctx, &geminiChatRequest{
		Contents: []*geminiChatContent{
			{
				Parts: []*geminiChatParts{{Text: prompt}},
				Role:  RoleUser,
			},
		},
	})
	if err != nil {
		return "", err
	}
	return sanitizeTitle(title), nil
}

func (g *GeminiOracle) generate(ctx context.Context, payload *geminiChatRequest) (string, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes geminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	// An empty candidate list is a valid "no text" outcome, not a
	// transport failure. The replay engine substitutes its placeholder.
	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title)
}
