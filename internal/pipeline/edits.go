package pipeline

import (
	"fmt"
	"strings"

	"github.com/narratif/studio/internal/models"
)

// Manual edits. Each edit clears whatever derived content it makes
// stale: the script feeds the narration rendering and the audio
// recommendations, the cast and the finalized script feed the
// storyboard, and a shot's image prompt feeds its video prompt.

// UpdateScript replaces the script text wholesale.
func (pl *Pipeline) UpdateScript(p *models.Project, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: script cannot be empty", ErrValidation)
	}
	p.Script = models.ScriptChunks{text}
	p.TTSScript = ""
	p.AudioRecommendations = nil
	if len(p.Scenes) > 0 {
		p.Scenes = []models.Scene{}
	}
	p.Touch()
	return nil
}

// UpdateTTSScript stores a hand-tuned narration rendering.
func (pl *Pipeline) UpdateTTSScript(p *models.Project, tts string) {
	p.TTSScript = tts
	p.Touch()
}

// UpdateCharacter replaces one character sheet. The storyboard was built
// against the old sheet, so it is discarded.
func (pl *Pipeline) UpdateCharacter(p *models.Project, character models.Character) error {
	existing := p.FindCharacter(character.ID)
	if existing == nil {
		return fmt.Errorf("%w: character %q not found", ErrValidation, character.ID)
	}
	*existing = character
	if len(p.Scenes) > 0 {
		p.Scenes = []models.Scene{}
	}
	p.Touch()
	return nil
}

// UpdateShotPrompt edits a shot's image prompts and narration. The video
// prompt was derived from the old image prompt and is cleared.
func (pl *Pipeline) UpdateShotPrompt(p *models.Project, sceneName string, shotID int, promptID, promptEN, narration string) error {
	shot := p.FindShot(sceneName, shotID)
	if shot == nil {
		return fmt.Errorf("%w: shot %d in scene %q not found", ErrValidation, shotID, sceneName)
	}
	shot.PromptID = promptID
	shot.PromptEN = promptEN
	shot.Narration = narration
	shot.VideoPromptID = ""
	shot.VideoPromptEN = ""
	p.Touch()
	return nil
}

// Rename sets the display name directly.
func (pl *Pipeline) Rename(p *models.Project, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	p.Name = name
	p.Touch()
	return nil
}

// PrepareSave derives a display name for a project still carrying a
// placeholder: the selected title if one exists, otherwise the first
// words of the story idea. A project with neither cannot be saved.
func (pl *Pipeline) PrepareSave(p *models.Project) error {
	if !p.HasDefaultName() {
		return nil
	}
	if p.SelectedTitle != "" {
		p.Name = p.SelectedTitle
		return nil
	}
	words := strings.Fields(p.StoryIdea)
	if len(words) == 0 {
		return fmt.Errorf("%w: give the project a name, a title, or a story idea before saving", ErrValidation)
	}
	if len(words) > 5 {
		p.Name = strings.Join(words[:5], " ") + "..."
	} else {
		p.Name = strings.Join(words, " ")
	}
	return nil
}
