package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/narratif/studio/internal/models"
)

// OpenAICompatProvider speaks the OpenAI chat-completions protocol. Groq
// and OpenAI both use it, differing only in endpoint, model, and name.
// Media synthesis kinds are not available through this protocol.
type OpenAICompatProvider struct {
	name       models.Provider
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewOpenAICompatProvider(name models.Provider, endpoint, model string) *OpenAICompatProvider {
	return &OpenAICompatProvider{
		name:     name,
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (o *OpenAICompatProvider) Name() models.Provider {
	return o.name
}

func (o *OpenAICompatProvider) Supports(kind Kind) bool {
	return kind != KindSingleImage && kind != KindSingleVideo
}

func (o *OpenAICompatProvider) GenerateText(ctx context.Context, key, prompt string) (string, error) {
	content, err := o.chatCompletion(ctx, key, prompt, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (o *OpenAICompatProvider) GenerateJSON(ctx context.Context, key, prompt string) (string, error) {
	prompt += "\n\nIMPORTANT: respond ONLY with a valid JSON object or array, without markdown formatting such as ```json ... ```."
	content, err := o.chatCompletion(ctx, key, prompt, true)
	if err != nil {
		return "", err
	}
	return sanitizeJSON(content), nil
}

func (o *OpenAICompatProvider) GenerateImage(context.Context, string, string) (*ImageData, error) {
	return nil, fmt.Errorf("%w: %s cannot synthesize images", ErrUnsupportedKind, o.name)
}

func (o *OpenAICompatProvider) GenerateVideo(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: %s cannot synthesize video", ErrUnsupportedKind, o.name)
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAICompatProvider) chatCompletion(ctx context.Context, key, prompt string, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		reqBody.ResponseFormat = &respFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", classifyErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyErr(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTP(resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrEmptyResult)
	}
	return parsed.Choices[0].Message.Content, nil
}
