package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/narratif/studio/internal/models"
)

// GeminiProvider implements all content kinds, including image and video
// synthesis. It is the only provider family defined for media kinds.
type GeminiProvider struct {
	textModel  string
	imageModel string
}

func NewGeminiProvider(textModel, imageModel string) *GeminiProvider {
	return &GeminiProvider{textModel: textModel, imageModel: imageModel}
}

func (g *GeminiProvider) Name() models.Provider {
	return models.ProviderGemini
}

func (g *GeminiProvider) Supports(Kind) bool {
	return true
}

func (g *GeminiProvider) GenerateText(ctx context.Context, key, prompt string) (string, error) {
	return g.generate(ctx, key, prompt, false)
}

func (g *GeminiProvider) GenerateJSON(ctx context.Context, key, prompt string) (string, error) {
	raw, err := g.generate(ctx, key, prompt, true)
	if err != nil {
		return "", err
	}
	return sanitizeJSON(raw), nil
}

func (g *GeminiProvider) generate(ctx context.Context, key, prompt string, jsonMode bool) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return "", classifyErr(err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.textModel)
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyErr(err)
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: no text in response", ErrEmptyResult)
	}
	return text, nil
}

func (g *GeminiProvider) GenerateImage(ctx context.Context, key, prompt string) (*ImageData, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, classifyErr(err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.imageModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyErr(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return &ImageData{MIMEType: blob.MIMEType, Data: blob.Data}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no image in response", ErrEmptyResult)
}

// Sample clip returned while video synthesis is stubbed.
const placeholderVideoURL = "https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4"

// GenerateVideo returns a placeholder clip after a short delay.
// TODO: replace with the Veo long-running operation once the SDK exposes it.
func (g *GeminiProvider) GenerateVideo(ctx context.Context, key, prompt string) (string, error) {
	if key == "" {
		return "", ErrMissingCredential
	}
	select {
	case <-ctx.Done():
		return "", classifyErr(ctx.Err())
	case <-time.After(2 * time.Second):
	}
	return placeholderVideoURL, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && len(text) > 0 {
				return string(text)
			}
		}
	}
	return ""
}
