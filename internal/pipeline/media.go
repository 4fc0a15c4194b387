package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/models"
)

// Per-entity media generation is split into begin/complete/fail phases
// so the project lock is not held across the provider call. Begin marks
// the entity as generating and returns the prompt to run; complete and
// fail apply the outcome. An entity that disappeared in the meantime
// (the storyboard was rebuilt, the cast replaced) absorbs the result
// silently: last write wins, stale writes land nowhere.

// BeginShotImage marks a shot as generating and returns its image prompt.
func (pl *Pipeline) BeginShotImage(p *models.Project, sceneName string, shotID int) (string, error) {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		return "", fmt.Errorf("%w: shot %d in scene %q not found", ErrValidation, shotID, sceneName)
	}
	if shot.PromptEN == "" {
		return "", fmt.Errorf("%w: shot %d has no image prompt", ErrValidation, shotID)
	}
	shot.IsGeneratingImage = true
	p.Touch()
	return shot.PromptEN, nil
}

// CompleteShotImage stores the generated image URL and clears the flag.
func (pl *Pipeline) CompleteShotImage(p *models.Project, sceneName string, shotID int, url string) {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		pl.logger.Warn("Discarding image for vanished shot",
			zap.String("projectId", p.ID),
			zap.String("scene", sceneName),
			zap.Int("shot", shotID),
		)
		return
	}
	shot.ImageURL = url
	shot.IsGeneratingImage = false
	p.Touch()
}

// FailShotImage clears the generating flag, keeping any previous image.
func (pl *Pipeline) FailShotImage(p *models.Project, sceneName string, shotID int) {
	if shot := p.FindShot(sceneName, shotID); shot != nil {
		shot.IsGeneratingImage = false
		p.Touch()
	}
}

// UploadShotImage stores a user-provided image on a shot directly.
func (pl *Pipeline) UploadShotImage(p *models.Project, sceneName string, shotID int, dataURL string) error {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		return fmt.Errorf("%w: shot %d in scene %q not found", ErrValidation, shotID, sceneName)
	}
	shot.ImageURL = dataURL
	shot.IsGeneratingImage = false
	p.Touch()
	return nil
}

// BeginShotVideo marks a shot as generating video and returns its video
// prompt. A shot without one is a no-op: the empty prompt with nil error
// tells the caller there is nothing to run.
func (pl *Pipeline) BeginShotVideo(p *models.Project, sceneName string, shotID int) (string, error) {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		return "", fmt.Errorf("%w: shot %d in scene %q not found", ErrValidation, shotID, sceneName)
	}
	if shot.VideoPromptEN == "" {
		return "", nil
	}
	shot.IsGeneratingVideo = true
	p.Touch()
	return shot.VideoPromptEN, nil
}

// CompleteShotVideo stores the clip URL and clears the flag.
func (pl *Pipeline) CompleteShotVideo(p *models.Project, sceneName string, shotID int, url string) {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		pl.logger.Warn("Discarding video for vanished shot",
			zap.String("projectId", p.ID),
			zap.String("scene", sceneName),
			zap.Int("shot", shotID),
		)
		return
	}
	shot.VideoURL = url
	shot.IsGeneratingVideo = false
	p.Touch()
}

// FailShotVideo clears the generating flag.
func (pl *Pipeline) FailShotVideo(p *models.Project, sceneName string, shotID int) {
	if shot := p.FindShot(sceneName, shotID); shot != nil {
		shot.IsGeneratingVideo = false
		p.Touch()
	}
}

// BeginCharacterImage marks a character as generating a reference
// portrait and returns the portrait prompt. The prompt is recorded on
// the character so a later regeneration can reuse or show it.
func (pl *Pipeline) BeginCharacterImage(p *models.Project, characterID string) (string, error) {
	c := p.FindCharacter(characterID)
	if c == nil {
		return "", fmt.Errorf("%w: character %q not found", ErrValidation, characterID)
	}
	prompt := gateway.CharacterPortraitPrompt(c.ConsistencyString)
	c.GenerationPrompt = prompt
	c.IsGeneratingImage = true
	p.Touch()
	return prompt, nil
}

// CompleteCharacterImage stores the portrait URL and clears the flag.
func (pl *Pipeline) CompleteCharacterImage(p *models.Project, characterID, url string) {
	c := p.FindCharacter(characterID)
	if c == nil {
		pl.logger.Warn("Discarding portrait for vanished character",
			zap.String("projectId", p.ID),
			zap.String("characterId", characterID),
		)
		return
	}
	c.ImageURL = url
	c.IsGeneratingImage = false
	p.Touch()
}

// FailCharacterImage clears the generating flag.
func (pl *Pipeline) FailCharacterImage(p *models.Project, characterID string) {
	if c := p.FindCharacter(characterID); c != nil {
		c.IsGeneratingImage = false
		p.Touch()
	}
}

// BeginThumbnailImage marks a thumbnail option as generating and returns
// its prompt.
func (pl *Pipeline) BeginThumbnailImage(p *models.Project, thumbnailID int) (string, error) {
	t := findThumbnail(p, thumbnailID)
	if t == nil {
		return "", fmt.Errorf("%w: thumbnail %d not found", ErrValidation, thumbnailID)
	}
	t.IsGenerating = true
	p.Touch()
	return t.Prompt, nil
}

// CompleteThumbnailImage stores the image URL and clears the flag.
func (pl *Pipeline) CompleteThumbnailImage(p *models.Project, thumbnailID int, url string) {
	t := findThumbnail(p, thumbnailID)
	if t == nil {
		pl.logger.Warn("Discarding image for vanished thumbnail",
			zap.String("projectId", p.ID),
			zap.Int("thumbnailId", thumbnailID),
		)
		return
	}
	t.ImageURL = url
	t.IsGenerating = false
	p.Touch()
}

// FailThumbnailImage clears the generating flag.
func (pl *Pipeline) FailThumbnailImage(p *models.Project, thumbnailID int) {
	if t := findThumbnail(p, thumbnailID); t != nil {
		t.IsGenerating = false
		p.Touch()
	}
}

func findThumbnail(p *models.Project, id int) *models.ThumbnailOption {
	for i := range p.ThumbnailOptions {
		if p.ThumbnailOptions[i].ID == id {
			return &p.ThumbnailOptions[i]
		}
	}
	return nil
}
