package gateway

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/narratif/studio/internal/models"
)

// Kind identifies a content family the gateway can request.
type Kind string

const (
	KindStrategy             Kind = "strategy"
	KindViralTitleList       Kind = "viral-title-list"
	KindInitialScript        Kind = "initial-script"
	KindScriptContinuation   Kind = "script-continuation"
	KindTTSRendering         Kind = "tts-rendering"
	KindCharacterSheets      Kind = "character-sheets"
	KindStoryboard           Kind = "storyboard"
	KindSingleImage          Kind = "single-image"
	KindSingleVideo          Kind = "single-video"
	KindAudioRecommendations Kind = "audio-recommendations"
	KindVideoPrompts         Kind = "video-prompts"
	KindThumbnailPrompts     Kind = "thumbnail-prompts"
	KindYoutubeMetadata      Kind = "youtube-metadata"
)

// Structured reports whether the kind returns data validated against a
// fixed JSON shape. Free-text kinds return verbatim trimmed text.
func (k Kind) Structured() bool {
	switch k {
	case KindInitialScript, KindScriptContinuation, KindTTSRendering,
		KindSingleImage, KindSingleVideo:
		return false
	}
	return true
}

// ImageData is a generated image plus its mime type.
type ImageData struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as an inline data URL, the form stored on
// shots when no asset store is configured.
func (d ImageData) DataURL() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Provider is one generation backend. Providers are stateless; the
// credential is threaded into every call so no ambient configuration is
// read at call time. Not every provider implements every kind; callers
// must check Supports before dispatching media synthesis.
type Provider interface {
	Name() models.Provider
	Supports(kind Kind) bool

	// GenerateText returns verbatim trimmed text for free-text kinds.
	GenerateText(ctx context.Context, key, prompt string) (string, error)

	// GenerateJSON returns the raw JSON payload for structured kinds,
	// with any code-fence wrapping already stripped.
	GenerateJSON(ctx context.Context, key, prompt string) (string, error)

	// GenerateImage synthesizes one image for the prompt.
	GenerateImage(ctx context.Context, key, prompt string) (*ImageData, error)

	// GenerateVideo synthesizes one video clip and returns its URL.
	GenerateVideo(ctx context.Context, key, prompt string) (string, error)
}

// sanitizeJSON strips markdown code-fence wrapping some models add around
// JSON payloads despite instructions not to.
func sanitizeJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
