package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/narratif/studio/internal/models"
)

func TestShotImageLifecycle(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()

	prompt, err := pl.BeginShotImage(p, "Dapur", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt != "B" {
		t.Errorf("prompt = %q, want the shot's image prompt", prompt)
	}
	if !p.FindShot("Dapur", 1).IsGeneratingImage {
		t.Errorf("begin must set the generating flag")
	}

	pl.CompleteShotImage(p, "Dapur", 1, "data:image/png;base64,xxx")
	shot := p.FindShot("Dapur", 1)
	if shot.ImageURL == "" || shot.IsGeneratingImage {
		t.Errorf("complete must store the url and clear the flag: %+v", shot)
	}
}

func TestShotImageFailureKeepsPreviousImage(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()
	p.Scenes[0].Shots[0].ImageURL = "data:image/png;base64,old"

	if _, err := pl.BeginShotImage(p, "Dapur", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pl.FailShotImage(p, "Dapur", 0)

	shot := p.FindShot("Dapur", 0)
	if shot.IsGeneratingImage {
		t.Errorf("failure must clear the flag")
	}
	if shot.ImageURL != "data:image/png;base64,old" {
		t.Errorf("failure must not discard the previous image")
	}
}

func TestCompleteShotImageOnVanishedShot(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()

	// The storyboard was rebuilt while the image rendered.
	pl.CompleteShotImage(p, "Dapur", 99, "data:image/png;base64,xxx")
	for _, scene := range p.Scenes {
		for _, shot := range scene.Shots {
			if shot.ImageURL != "" {
				t.Errorf("stale result must not land anywhere")
			}
		}
	}
}

func TestBeginShotImageValidation(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()

	if _, err := pl.BeginShotImage(p, "Tidak Ada", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown scene: error = %v, want ErrValidation", err)
	}
	if _, err := pl.BeginShotImage(p, "Dapur", 42); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown shot: error = %v, want ErrValidation", err)
	}
}

func TestBeginShotVideoWithoutPromptIsNoop(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()

	prompt, err := pl.BeginShotVideo(p, "Dapur", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt != "" {
		t.Errorf("a shot without a video prompt must be a no-op")
	}
	if p.FindShot("Dapur", 0).IsGeneratingVideo {
		t.Errorf("no-op must not set the flag")
	}
}

func TestShotVideoLifecycle(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()
	p.Scenes[0].Shots[0].VideoPromptEN = "slow dolly in"

	prompt, err := pl.BeginShotVideo(p, "Dapur", 0)
	if err != nil || prompt != "slow dolly in" {
		t.Fatalf("prompt = %q, err = %v", prompt, err)
	}
	if !p.FindShot("Dapur", 0).IsGeneratingVideo {
		t.Errorf("begin must set the generating flag")
	}

	pl.CompleteShotVideo(p, "Dapur", 0, "https://example.com/clip.mp4")
	shot := p.FindShot("Dapur", 0)
	if shot.VideoURL != "https://example.com/clip.mp4" || shot.IsGeneratingVideo {
		t.Errorf("complete must store the url and clear the flag: %+v", shot)
	}
}

func TestCharacterImageLifecycle(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()
	p.Characters[0].ConsistencyString = "a 30s Indonesian woman"

	prompt, err := pl.BeginCharacterImage(p, "Ratna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := p.FindCharacter("Ratna")
	if !c.IsGeneratingImage {
		t.Errorf("begin must set the generating flag")
	}
	if c.GenerationPrompt != prompt {
		t.Errorf("the portrait prompt must be recorded on the character")
	}
	if !strings.Contains(prompt, "a 30s Indonesian woman") {
		t.Errorf("portrait prompt must embed the consistency string, got %q", prompt)
	}

	pl.CompleteCharacterImage(p, "Ratna", "data:image/png;base64,xxx")
	if c.ImageURL == "" || c.IsGeneratingImage {
		t.Errorf("complete must store the url and clear the flag")
	}
}

func TestThumbnailImageLifecycle(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := projectAt(models.StageMetadataReview)
	p.ThumbnailOptions = []models.ThumbnailOption{
		{ID: 0, Prompt: "dramatic close-up"},
		{ID: 1, Prompt: "high contrast"},
	}

	prompt, err := pl.BeginThumbnailImage(p, 1)
	if err != nil || prompt != "high contrast" {
		t.Fatalf("prompt = %q, err = %v", prompt, err)
	}
	if !p.ThumbnailOptions[1].IsGenerating {
		t.Errorf("begin must set the generating flag")
	}

	pl.FailThumbnailImage(p, 1)
	if p.ThumbnailOptions[1].IsGenerating {
		t.Errorf("failure must clear the flag")
	}
}

func TestUploadShotImage(t *testing.T) {
	pl, _ := newTestPipeline(&fakeProvider{})
	p := editingProject()
	p.Scenes[0].Shots[0].IsGeneratingImage = true

	if err := pl.UploadShotImage(p, "Dapur", 0, "data:image/jpeg;base64,user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shot := p.FindShot("Dapur", 0)
	if shot.ImageURL != "data:image/jpeg;base64,user" || shot.IsGeneratingImage {
		t.Errorf("upload must store the url and clear the flag: %+v", shot)
	}
}
