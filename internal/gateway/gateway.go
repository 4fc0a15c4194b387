package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/config"
	"github.com/narratif/studio/internal/models"
)

// Strategy is the structured result of the strategy kind.
type Strategy struct {
	Synopsis       string   `json:"synopsis"`
	Genre          string   `json:"genre"`
	TargetAudience string   `json:"targetAudience"`
	TitleOptions   []string `json:"titleOptions"`
}

// VideoPromptShot carries the localized video-prompt pair for one shot.
type VideoPromptShot struct {
	VideoPromptID string `json:"videoPromptId"`
	VideoPromptEN string `json:"videoPromptEn"`
}

// VideoPromptScene groups video prompts under the scene name they were
// generated for; merging back matches on that name.
type VideoPromptScene struct {
	Name  string            `json:"name"`
	Shots []VideoPromptShot `json:"shots"`
}

// Gateway translates stage requests into provider calls. It holds no
// project state and never mutates one; provider settings arrive with
// every call.
type Gateway struct {
	providers         map[models.Provider]Provider
	fallbackGeminiKey string
	logger            *zap.Logger
}

// New wires the provider set from configuration.
func New(cfg config.ProvidersConfig, logger *zap.Logger) *Gateway {
	providers := map[models.Provider]Provider{
		models.ProviderGemini: NewGeminiProvider(cfg.GeminiModel, cfg.GeminiImageModel),
		models.ProviderGroq:   NewOpenAICompatProvider(models.ProviderGroq, cfg.GroqEndpoint, cfg.GroqModel),
		models.ProviderOpenAI: NewOpenAICompatProvider(models.ProviderOpenAI, cfg.OpenAIEndpoint, cfg.OpenAIModel),
	}
	return &Gateway{
		providers:         providers,
		fallbackGeminiKey: cfg.FallbackGeminiKey,
		logger:            logger,
	}
}

// NewWithProviders is the fixture constructor used by tests.
func NewWithProviders(providers map[models.Provider]Provider, fallbackGeminiKey string, logger *zap.Logger) *Gateway {
	return &Gateway{providers: providers, fallbackGeminiKey: fallbackGeminiKey, logger: logger}
}

// HasUsableCredential reports whether a call with these settings could
// proceed at all. Checked before entering any transient stage.
func (g *Gateway) HasUsableCredential(settings models.ProviderSettings) bool {
	if settings.KeyFor(settings.Provider) != "" {
		return true
	}
	return settings.Provider == models.ProviderGemini && g.fallbackGeminiKey != ""
}

// resolve picks the provider and credential for a kind. Image and video
// synthesis are defined only for the Gemini family, regardless of the
// active provider.
func (g *Gateway) resolve(settings models.ProviderSettings, kind Kind) (Provider, string, error) {
	name := settings.Provider
	if kind == KindSingleImage || kind == KindSingleVideo {
		name = models.ProviderGemini
	}

	provider, ok := g.providers[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: unknown provider %q", ErrProviderUnavailable, name)
	}
	if !provider.Supports(kind) {
		return nil, "", fmt.Errorf("%w: %s does not support %s", ErrUnsupportedKind, name, kind)
	}

	key := settings.KeyFor(name)
	if key == "" && name == models.ProviderGemini {
		key = g.fallbackGeminiKey
	}
	if key == "" {
		return nil, "", fmt.Errorf("%w: no key for %s", ErrMissingCredential, name)
	}
	return provider, key, nil
}

// structuredCall runs a structured kind and decodes into out. A payload
// that does not decode is a MalformedResponse, never partial data.
func (g *Gateway) structuredCall(ctx context.Context, settings models.ProviderSettings, kind Kind, prompt string, out any) error {
	provider, key, err := g.resolve(settings, kind)
	if err != nil {
		return err
	}

	raw, err := provider.GenerateJSON(ctx, key, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		g.logger.Warn("Unparseable structured response",
			zap.String("kind", string(kind)),
			zap.String("provider", string(provider.Name())),
			zap.Error(err),
		)
		return fmt.Errorf("%w: kind %s: %s", ErrMalformedResponse, kind, err)
	}
	return nil
}

func (g *Gateway) textCall(ctx context.Context, settings models.ProviderSettings, kind Kind, prompt string) (string, error) {
	provider, key, err := g.resolve(settings, kind)
	if err != nil {
		return "", err
	}
	return provider.GenerateText(ctx, key, prompt)
}

// GenerateStrategy returns synopsis, genre, audience, and title options
// for a story idea.
func (g *Gateway) GenerateStrategy(ctx context.Context, settings models.ProviderSettings, idea string) (*Strategy, error) {
	var strategy Strategy
	prompt := fill(strategyPrompt, "{idea}", idea)
	if err := g.structuredCall(ctx, settings, KindStrategy, prompt, &strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

// GenerateViralTitles returns a fresh batch of clickbait story titles.
func (g *Gateway) GenerateViralTitles(ctx context.Context, settings models.ProviderSettings) ([]string, error) {
	var titles []string
	if err := g.structuredCall(ctx, settings, KindViralTitleList, viralIdeaPrompt, &titles); err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: no titles", ErrEmptyResult)
	}
	return titles, nil
}

// GenerateInitialScript writes the opening script chunk.
func (g *Gateway) GenerateInitialScript(ctx context.Context, settings models.ProviderSettings, synopsis string, language models.Language, title string, style models.StoryStyle, durationMin int) (string, error) {
	template := initialScriptPromptID
	if language == models.LanguageEnglish {
		template = initialScriptPromptEN
	}
	prompt := fill(template,
		"{idea}", synopsis,
		"{title}", title,
		"{style}", string(style),
		"{duration}", strconv.Itoa(durationMin),
	)
	script, err := g.textCall(ctx, settings, KindInitialScript, prompt)
	if err != nil {
		return "", err
	}
	if script == "" {
		return "", fmt.Errorf("%w: empty script", ErrEmptyResult)
	}
	return script, nil
}

// ContinueScript appends the next chunk to an existing script.
func (g *Gateway) ContinueScript(ctx context.Context, settings models.ProviderSettings, existingScript string, language models.Language) (string, error) {
	template := continueScriptPromptID
	if language == models.LanguageEnglish {
		template = continueScriptPromptEN
	}
	prompt := fill(template, "{existingScript}", existingScript)
	script, err := g.textCall(ctx, settings, KindScriptContinuation, prompt)
	if err != nil {
		return "", err
	}
	if script == "" {
		return "", fmt.Errorf("%w: empty continuation", ErrEmptyResult)
	}
	return script, nil
}

// GenerateTTSScript renders the full script into speech markup.
func (g *Gateway) GenerateTTSScript(ctx context.Context, settings models.ProviderSettings, script string) (string, error) {
	prompt := fill(ttsScriptPrompt, "{script}", script)
	return g.textCall(ctx, settings, KindTTSRendering, prompt)
}

// GenerateCharacterSheets extracts the cast from a script. Character ids
// are derived from names, which is what downstream prompt references key on.
func (g *Gateway) GenerateCharacterSheets(ctx context.Context, settings models.ProviderSettings, script string) ([]models.Character, error) {
	var characters []models.Character
	prompt := fill(characterSheetsPrompt, "{script}", script)
	if err := g.structuredCall(ctx, settings, KindCharacterSheets, prompt, &characters); err != nil {
		return nil, err
	}
	for i := range characters {
		characters[i].ID = characters[i].Name
	}
	return characters, nil
}

// GenerateStoryboard breaks the script into scenes and shots. Shot ids
// are not assigned here; the pipeline numbers them project-wide.
func (g *Gateway) GenerateStoryboard(ctx context.Context, settings models.ProviderSettings, script string, characters []models.Character, language models.Language) ([]models.Scene, error) {
	template := storyboardPromptID
	if language == models.LanguageEnglish {
		template = storyboardPromptEN
	}
	prompt := fill(template,
		"{visualStyle}", visualStyleString,
		"{characters}", formatCharacterBible(characters),
		"{script}", script,
	)
	var scenes []models.Scene
	if err := g.structuredCall(ctx, settings, KindStoryboard, prompt, &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// GenerateImage synthesizes one image for a prompt.
func (g *Gateway) GenerateImage(ctx context.Context, settings models.ProviderSettings, prompt string) (*ImageData, error) {
	provider, key, err := g.resolve(settings, KindSingleImage)
	if err != nil {
		return nil, err
	}
	return provider.GenerateImage(ctx, key, prompt)
}

// GenerateVideo synthesizes one video clip for a prompt and returns its URL.
func (g *Gateway) GenerateVideo(ctx context.Context, settings models.ProviderSettings, prompt string) (string, error) {
	provider, key, err := g.resolve(settings, KindSingleVideo)
	if err != nil {
		return "", err
	}
	return provider.GenerateVideo(ctx, key, prompt)
}

// GenerateAudioRecommendations analyses the script for BGM/SFX guidance.
func (g *Gateway) GenerateAudioRecommendations(ctx context.Context, settings models.ProviderSettings, script string) (*models.AudioRecommendations, error) {
	var rec models.AudioRecommendations
	prompt := fill(audioRecommendationsPrompt, "{script}", script)
	if err := g.structuredCall(ctx, settings, KindAudioRecommendations, prompt, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GenerateVideoPrompts produces per-shot video prompts grouped by scene
// name. Shot counts are requested to match the input but are not
// guaranteed to; the caller must verify before applying.
func (g *Gateway) GenerateVideoPrompts(ctx context.Context, settings models.ProviderSettings, scenes []models.Scene, characters []models.Character, language models.Language) ([]VideoPromptScene, error) {
	template := videoPromptsPromptID
	if language == models.LanguageEnglish {
		template = videoPromptsPromptEN
	}
	prompt := fill(template,
		"{characters}", formatCharacterBible(characters),
		"{scenes}", formatScenesForVideoPrompt(scenes),
	)
	var result []VideoPromptScene
	if err := g.structuredCall(ctx, settings, KindVideoPrompts, prompt, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateYoutubeMetadata builds the delivery metadata package.
func (g *Gateway) GenerateYoutubeMetadata(ctx context.Context, settings models.ProviderSettings, script string) (*models.YoutubeMetadata, error) {
	var meta models.YoutubeMetadata
	prompt := fill(youtubeMetadataPrompt, "{script}", script)
	if err := g.structuredCall(ctx, settings, KindYoutubeMetadata, prompt, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GenerateThumbnailPrompts returns thumbnail image prompts for the title.
func (g *Gateway) GenerateThumbnailPrompts(ctx context.Context, settings models.ProviderSettings, script string, characters []models.Character, title string) ([]string, error) {
	var prompts []string
	prompt := fill(thumbnailPromptsPrompt,
		"{title}", title,
		"{characters}", formatCharacterBible(characters),
		"{script}", script,
	)
	if err := g.structuredCall(ctx, settings, KindThumbnailPrompts, prompt, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// CharacterPortraitPrompt exposes the fixed portrait framing so the
// pipeline can record the exact prompt used on the character.
func CharacterPortraitPrompt(consistencyString string) string {
	return characterPortraitPrompt(consistencyString)
}
