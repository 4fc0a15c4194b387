package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
)

type stubProvider struct {
	name       models.Provider
	mediaKinds bool
	json       string
	jsonErr    error
	lastKey    string
}

func (s *stubProvider) Name() models.Provider { return s.name }
func (s *stubProvider) Supports(kind Kind) bool {
	if kind == KindSingleImage || kind == KindSingleVideo {
		return s.mediaKinds
	}
	return true
}

func (s *stubProvider) GenerateText(_ context.Context, key, _ string) (string, error) {
	s.lastKey = key
	return "text", nil
}

func (s *stubProvider) GenerateJSON(_ context.Context, key, _ string) (string, error) {
	s.lastKey = key
	return s.json, s.jsonErr
}

func (s *stubProvider) GenerateImage(_ context.Context, key, _ string) (*ImageData, error) {
	s.lastKey = key
	return &ImageData{MIMEType: "image/png", Data: []byte{1}}, nil
}

func (s *stubProvider) GenerateVideo(_ context.Context, key, _ string) (string, error) {
	s.lastKey = key
	return "https://example.com/v.mp4", nil
}

func TestSanitizeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without language", "```\n[1,2]\n```", `[1,2]`},
		{"surrounding whitespace", "  {\"a\":1}  \n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeJSON(tt.input); got != tt.want {
				t.Errorf("sanitizeJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyHTTP(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusUnauthorized, ErrMissingCredential},
		{http.StatusForbidden, ErrMissingCredential},
		{http.StatusInternalServerError, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		if got := classifyHTTP(tt.status, "body"); !errors.Is(got, tt.want) {
			t.Errorf("classifyHTTP(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"googleapi: Error 429: RESOURCE_EXHAUSTED", ErrRateLimited},
		{"quota exceeded for this project", ErrRateLimited},
		{"API key not valid", ErrMissingCredential},
		{"dial tcp: connection refused", ErrProviderUnavailable},
	}
	for _, tt := range tests {
		if got := classifyErr(errors.New(tt.msg)); !errors.Is(got, tt.want) {
			t.Errorf("classifyErr(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestResolveMissingCredential(t *testing.T) {
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: &stubProvider{name: models.ProviderGemini, mediaKinds: true},
	}, "", zap.NewNop())

	settings := models.ProviderSettings{Provider: models.ProviderGemini}
	_, err := g.GenerateStrategy(context.Background(), settings, "ide")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
}

func TestResolveFallbackGeminiKey(t *testing.T) {
	stub := &stubProvider{name: models.ProviderGemini, mediaKinds: true, json: `{"synopsis":"s","genre":"g","targetAudience":"a","titleOptions":["t"]}`}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: stub,
	}, "env-key", zap.NewNop())

	settings := models.ProviderSettings{Provider: models.ProviderGemini}
	if _, err := g.GenerateStrategy(context.Background(), settings, "ide"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.lastKey != "env-key" {
		t.Errorf("key = %q, want the environment fallback", stub.lastKey)
	}
}

func TestMediaKindsRouteToGemini(t *testing.T) {
	gemini := &stubProvider{name: models.ProviderGemini, mediaKinds: true}
	groq := &stubProvider{name: models.ProviderGroq}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: gemini,
		models.ProviderGroq:   groq,
	}, "", zap.NewNop())

	// Groq is active, but image synthesis must use the Gemini key.
	settings := models.ProviderSettings{
		Provider: models.ProviderGroq,
		Keys:     models.ProviderKeys{Groq: "gsk", Gemini: "gem"},
	}

	if _, err := g.GenerateImage(context.Background(), settings, "a portrait"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gemini.lastKey != "gem" {
		t.Errorf("image call used key %q on gemini, want %q", gemini.lastKey, "gem")
	}
	if groq.lastKey != "" {
		t.Errorf("groq must not receive media calls")
	}
}

func TestMalformedStructuredResponse(t *testing.T) {
	stub := &stubProvider{name: models.ProviderGemini, mediaKinds: true, json: `this is not json`}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: stub,
	}, "key", zap.NewNop())

	settings := models.ProviderSettings{Provider: models.ProviderGemini}
	_, err := g.GenerateStrategy(context.Background(), settings, "ide")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestViralTitlesEmptyResult(t *testing.T) {
	stub := &stubProvider{name: models.ProviderGemini, mediaKinds: true, json: `[]`}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: stub,
	}, "key", zap.NewNop())

	settings := models.ProviderSettings{Provider: models.ProviderGemini}
	_, err := g.GenerateViralTitles(context.Background(), settings)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("error = %v, want ErrEmptyResult", err)
	}
}

func TestCharacterSheetIDsDerivedFromNames(t *testing.T) {
	stub := &stubProvider{
		name:       models.ProviderGemini,
		mediaKinds: true,
		json:       `[{"name":"Ratna","description":{},"consistencyString":"c"}]`,
	}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGemini: stub,
	}, "key", zap.NewNop())

	settings := models.ProviderSettings{Provider: models.ProviderGemini}
	characters, err := g.GenerateCharacterSheets(context.Background(), settings, "naskah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(characters) != 1 || characters[0].ID != "Ratna" {
		t.Errorf("characters = %+v, want name-derived ids", characters)
	}
}

func TestHasUsableCredential(t *testing.T) {
	g := NewWithProviders(nil, "env-key", zap.NewNop())

	tests := []struct {
		name     string
		settings models.ProviderSettings
		want     bool
	}{
		{
			name:     "own key",
			settings: models.ProviderSettings{Provider: models.ProviderGroq, Keys: models.ProviderKeys{Groq: "gsk"}},
			want:     true,
		},
		{
			name:     "gemini falls back to environment",
			settings: models.ProviderSettings{Provider: models.ProviderGemini},
			want:     true,
		},
		{
			name:     "non-gemini has no fallback",
			settings: models.ProviderSettings{Provider: models.ProviderGroq},
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.HasUsableCredential(tt.settings); got != tt.want {
				t.Errorf("HasUsableCredential = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindStructured(t *testing.T) {
	structured := []Kind{KindStrategy, KindViralTitleList, KindCharacterSheets, KindStoryboard,
		KindAudioRecommendations, KindVideoPrompts, KindThumbnailPrompts, KindYoutubeMetadata}
	freeText := []Kind{KindInitialScript, KindScriptContinuation, KindTTSRendering, KindSingleImage, KindSingleVideo}

	for _, k := range structured {
		if !k.Structured() {
			t.Errorf("%s should be structured", k)
		}
	}
	for _, k := range freeText {
		if k.Structured() {
			t.Errorf("%s should not be structured", k)
		}
	}
}

func TestUnsupportedKind(t *testing.T) {
	groq := &stubProvider{name: models.ProviderGroq}
	g := NewWithProviders(map[models.Provider]Provider{
		models.ProviderGroq: groq,
	}, "", zap.NewNop())

	// No Gemini provider registered at all.
	settings := models.ProviderSettings{Provider: models.ProviderGroq, Keys: models.ProviderKeys{Groq: "gsk"}}
	_, err := g.GenerateImage(context.Background(), settings, "prompt")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestImageDataURL(t *testing.T) {
	img := ImageData{MIMEType: "image/png", Data: []byte("abc")}
	got := img.DataURL()
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("DataURL = %q", got)
	}
	if !strings.HasSuffix(got, "YWJj") {
		t.Errorf("DataURL payload = %q, want base64 of abc", got)
	}
}
