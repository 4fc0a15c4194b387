package orchestrator

import (
	"context"

	"github.com/narratif/studio/internal/models"
)

// IdeaSubmission carries the idea-path entry fields.
type IdeaSubmission struct {
	Idea     string
	Language models.Language
	Style    models.StoryStyle
	Duration int
}

// SubmitIdea runs the strategy pass for a project.
func (o *Orchestrator) SubmitIdea(ctx context.Context, id string, sub IdeaSubmission) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.SubmitIdea(ctx, p, settings, sub.Idea, sub.Language, sub.Style, sub.Duration)
	})
}

// SubmitScript enters the pipeline with a finished script.
func (o *Orchestrator) SubmitScript(ctx context.Context, id, script string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.SubmitScript(ctx, p, settings, script)
	})
}

// ConfirmStrategy locks in a title and writes the opening episodes.
func (o *Orchestrator) ConfirmStrategy(ctx context.Context, id, selectedTitle string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.ConfirmStrategy(ctx, p, settings, selectedTitle)
	})
}

// ContinueScript appends the next episode batch.
func (o *Orchestrator) ContinueScript(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.ContinueScript(ctx, p, settings)
	})
}

// GenerateTTS renders the script for narration.
func (o *Orchestrator) GenerateTTS(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.GenerateTTS(ctx, p, settings)
	})
}

// FinalizeScript closes the writing room and extracts the cast.
func (o *Orchestrator) FinalizeScript(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.FinalizeScript(ctx, p, settings)
	})
}

// ConfirmCharacters approves the cast and builds the storyboard.
func (o *Orchestrator) ConfirmCharacters(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.ConfirmCharacters(ctx, p, settings)
	})
}

// ProceedToAudio runs the audio recommendation and video prompt passes.
func (o *Orchestrator) ProceedToAudio(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.ProceedToAudio(ctx, p, settings)
	})
}

// ProceedToVideo advances past the audio screen.
func (o *Orchestrator) ProceedToVideo(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.ProceedToVideoStage(p)
	})
}

// ProceedToMetadata runs the metadata and thumbnail prompt passes.
func (o *Orchestrator) ProceedToMetadata(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.ProceedToMetadata(ctx, p, settings)
	})
}

// ConfirmMetadata approves the metadata package.
func (o *Orchestrator) ConfirmMetadata(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.ConfirmMetadata(p)
	})
}

// BackToStrategy abandons the script and returns to the title choice.
func (o *Orchestrator) BackToStrategy(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.BackToStrategy(p)
	})
}

// RegenerateAudio replaces the audio recommendations.
func (o *Orchestrator) RegenerateAudio(ctx context.Context, id string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, settings models.ProviderSettings) error {
		if err := o.requireCredential(settings); err != nil {
			return err
		}
		return o.pipe.RegenerateAudio(ctx, p, settings)
	})
}

// UpdateScript applies a manual script edit.
func (o *Orchestrator) UpdateScript(ctx context.Context, id, text string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.UpdateScript(p, text)
	})
}

// UpdateTTSScript stores a hand-tuned narration rendering.
func (o *Orchestrator) UpdateTTSScript(ctx context.Context, id, tts string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		o.pipe.UpdateTTSScript(p, tts)
		return nil
	})
}

// UpdateCharacter applies a manual character-sheet edit.
func (o *Orchestrator) UpdateCharacter(ctx context.Context, id string, character models.Character) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.UpdateCharacter(p, character)
	})
}

// UpdateShotPrompt applies a manual shot edit.
func (o *Orchestrator) UpdateShotPrompt(ctx context.Context, id, sceneName string, shotID int, promptID, promptEN, narration string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.UpdateShotPrompt(p, sceneName, shotID, promptID, promptEN, narration)
	})
}

// UploadShotImage stores a user-provided image on a shot.
func (o *Orchestrator) UploadShotImage(ctx context.Context, id, sceneName string, shotID int, dataURL string) (*models.Project, error) {
	return o.withProject(ctx, id, func(p *models.Project, _ models.ProviderSettings) error {
		return o.pipe.UploadShotImage(p, sceneName, shotID, dataURL)
	})
}
