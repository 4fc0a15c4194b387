package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/models"
)

// maxTitleOptions is how many title choices the strategy review offers.
const maxTitleOptions = 4

// Pipeline drives projects through the production stages. Every method
// mutates the passed project in place; callers own locking and
// persistence. Failed generation passes restore a fallback stage so the
// user lands back on the screen the attempt started from.
type Pipeline struct {
	gw     *gateway.Gateway
	logger *zap.Logger
	notify func(*models.Project)
}

func New(gw *gateway.Gateway, logger *zap.Logger) *Pipeline {
	return &Pipeline{gw: gw, logger: logger}
}

// SetNotifier installs a hook invoked whenever a transient stage is
// entered, so observers see the in-progress state before the pass ends.
func (pl *Pipeline) SetNotifier(fn func(*models.Project)) {
	pl.notify = fn
}

func (pl *Pipeline) enter(p *models.Project, stage models.Stage) {
	p.Stage = stage
	p.Touch()
	if pl.notify != nil {
		pl.notify(p)
	}
}

// SubmitIdea runs the strategy pass for a story idea. On success the
// project moves to strategy review; on failure it returns to idea input
// with the idea fields kept.
func (pl *Pipeline) SubmitIdea(ctx context.Context, p *models.Project, settings models.ProviderSettings, idea string, language models.Language, style models.StoryStyle, durationMin int) error {
	if p.Stage != models.StageIdeaInput {
		return fmt.Errorf("%w: submit idea from %s", ErrInvalidState, p.Stage)
	}
	if strings.TrimSpace(idea) == "" {
		return fmt.Errorf("%w: empty story idea", ErrValidation)
	}

	p.StoryIdea = idea
	p.Language = language
	p.StoryStyle = style
	p.Duration = durationMin
	p.SubmissionType = models.SubmissionIdea
	pl.enter(p, models.StageGeneratingStrategy)

	strategy, err := pl.gw.GenerateStrategy(ctx, settings, idea)
	if err != nil {
		pl.enter(p, models.StageIdeaInput)
		return fmt.Errorf("strategy generation failed: %w", err)
	}

	p.Synopsis = strategy.Synopsis
	p.Genre = strategy.Genre
	p.TargetAudience = strategy.TargetAudience
	p.TitleOptions = NormalizeTitleOptions(idea, strategy.TitleOptions)
	pl.enter(p, models.StageStrategyReview)
	return nil
}

// SubmitScript enters the pipeline with a finished script, skipping the
// strategy and writing stages. The cast is extracted immediately; an
// empty cast returns the project to idea input with the script kept.
func (pl *Pipeline) SubmitScript(ctx context.Context, p *models.Project, settings models.ProviderSettings, script string) error {
	if p.Stage != models.StageIdeaInput {
		return fmt.Errorf("%w: submit script from %s", ErrInvalidState, p.Stage)
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("%w: empty script", ErrValidation)
	}

	p.Script = models.ScriptChunks{script}
	p.TTSScript = ""
	p.SubmissionType = models.SubmissionScript
	p.Duration = p.EstimatedMinutes()
	p.StoryIdea = truncateIdea(script)
	p.Name = models.ScriptProjectName
	pl.enter(p, models.StageGeneratingScenes)

	return pl.extractCharacters(ctx, p, settings, models.StageIdeaInput)
}

// ConfirmStrategy locks in a title and writes the opening episodes. Any
// script from a previous attempt is discarded first.
func (pl *Pipeline) ConfirmStrategy(ctx context.Context, p *models.Project, settings models.ProviderSettings, selectedTitle string) error {
	if p.Stage != models.StageStrategyReview {
		return fmt.Errorf("%w: confirm strategy from %s", ErrInvalidState, p.Stage)
	}
	if selectedTitle == "" {
		return fmt.Errorf("%w: no title selected", ErrValidation)
	}

	p.SelectedTitle = selectedTitle
	p.Script = nil
	p.TTSScript = ""
	p.GeneratedEpisodes = 0
	pl.enter(p, models.StageGeneratingScript)

	chunk, err := pl.gw.GenerateInitialScript(ctx, settings, p.Synopsis, p.Language, selectedTitle, p.StoryStyle, p.Duration)
	if err != nil {
		pl.enter(p, models.StageStrategyReview)
		return fmt.Errorf("initial script generation failed: %w", err)
	}

	p.Script = models.ScriptChunks{chunk}
	p.GeneratedEpisodes = models.EpisodesPerGeneration
	pl.enter(p, models.StageScriptWritingRoom)
	return nil
}

// ContinueScript appends the next episode batch. The stage does not
// change, so a failure leaves the writing room untouched.
func (pl *Pipeline) ContinueScript(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if p.Stage != models.StageScriptWritingRoom {
		return fmt.Errorf("%w: continue script from %s", ErrInvalidState, p.Stage)
	}

	chunk, err := pl.gw.ContinueScript(ctx, settings, p.FullScript(), p.Language)
	if err != nil {
		return fmt.Errorf("script continuation failed: %w", err)
	}

	p.Script = append(p.Script, chunk)
	p.GeneratedEpisodes += models.EpisodesPerGeneration
	p.TTSScript = ""
	p.Touch()
	return nil
}

// GenerateTTS renders the current script for narration. A project that
// already has a rendering keeps it; editing the script clears it, so a
// stale rendering can never survive here.
func (pl *Pipeline) GenerateTTS(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if len(p.Script) == 0 {
		return fmt.Errorf("%w: no script to render", ErrValidation)
	}
	if p.TTSScript != "" {
		return nil
	}

	tts, err := pl.gw.GenerateTTSScript(ctx, settings, p.FullScript())
	if err != nil {
		return fmt.Errorf("tts rendering failed: %w", err)
	}
	p.TTSScript = tts
	p.Touch()
	return nil
}

// FinalizeScript closes the writing room and extracts the cast from the
// full script. An empty cast returns the project to the writing room.
func (pl *Pipeline) FinalizeScript(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if p.Stage != models.StageScriptWritingRoom {
		return fmt.Errorf("%w: finalize script from %s", ErrInvalidState, p.Stage)
	}
	pl.enter(p, models.StageGeneratingScenes)
	return pl.extractCharacters(ctx, p, settings, models.StageScriptWritingRoom)
}

// extractCharacters is the shared cast-extraction pass behind both
// script entry points. Existing scenes are discarded on success since
// they were built against the previous cast.
func (pl *Pipeline) extractCharacters(ctx context.Context, p *models.Project, settings models.ProviderSettings, fallback models.Stage) error {
	characters, err := pl.gw.GenerateCharacterSheets(ctx, settings, p.FullScript())
	if err != nil {
		pl.enter(p, fallback)
		return fmt.Errorf("character extraction failed: %w", err)
	}
	if len(characters) == 0 {
		pl.enter(p, fallback)
		return ErrNoCharacters
	}

	p.Characters = characters
	p.Scenes = []models.Scene{}
	pl.enter(p, models.StageCharacterReview)
	return nil
}

// ConfirmCharacters approves the cast and builds the storyboard. Shot
// ids are assigned sequentially across all scenes in order.
func (pl *Pipeline) ConfirmCharacters(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if p.Stage != models.StageCharacterReview {
		return fmt.Errorf("%w: confirm characters from %s", ErrInvalidState, p.Stage)
	}
	if len(p.Characters) == 0 {
		return fmt.Errorf("%w: no characters to confirm", ErrValidation)
	}
	pl.enter(p, models.StageGeneratingScenes)

	scenes, err := pl.gw.GenerateStoryboard(ctx, settings, p.FullScript(), p.Characters, p.Language)
	if err != nil {
		pl.enter(p, models.StageCharacterReview)
		return fmt.Errorf("storyboard generation failed: %w", err)
	}

	assignShotIDs(scenes)
	p.Scenes = scenes
	pl.enter(p, models.StageEditing)
	return nil
}

// ProceedToAudio runs the audio recommendation and video prompt passes
// together. Both must succeed; a failure of either returns the project
// to editing with neither result applied.
func (pl *Pipeline) ProceedToAudio(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if p.Stage != models.StageEditing {
		return fmt.Errorf("%w: proceed to audio from %s", ErrInvalidState, p.Stage)
	}
	if len(p.Scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrValidation)
	}
	pl.enter(p, models.StageGeneratingAudioPrompts)

	var (
		wg        sync.WaitGroup
		rec       *models.AudioRecommendations
		prompts   []gateway.VideoPromptScene
		recErr    error
		promptErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rec, recErr = pl.gw.GenerateAudioRecommendations(ctx, settings, p.FullScript())
	}()
	go func() {
		defer wg.Done()
		prompts, promptErr = pl.gw.GenerateVideoPrompts(ctx, settings, p.Scenes, p.Characters, p.Language)
	}()
	wg.Wait()

	if recErr != nil || promptErr != nil {
		pl.enter(p, models.StageEditing)
		return fmt.Errorf("audio preparation failed: %w", errors.Join(recErr, promptErr))
	}

	p.AudioRecommendations = rec
	pl.mergeVideoPrompts(p, prompts)
	pl.enter(p, models.StageAudioVideoGeneration)
	return nil
}

// ProceedToVideoStage advances past the audio screen. No generation runs.
func (pl *Pipeline) ProceedToVideoStage(p *models.Project) error {
	if p.Stage != models.StageAudioVideoGeneration {
		return fmt.Errorf("%w: proceed to video from %s", ErrInvalidState, p.Stage)
	}
	pl.enter(p, models.StageVideoGeneration)
	return nil
}

// ProceedToMetadata runs the metadata and thumbnail prompt passes
// together. Requires a script, a cast, and a selected title.
func (pl *Pipeline) ProceedToMetadata(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if p.Stage != models.StageVideoGeneration {
		return fmt.Errorf("%w: proceed to metadata from %s", ErrInvalidState, p.Stage)
	}
	if len(p.Script) == 0 || len(p.Characters) == 0 || p.SelectedTitle == "" {
		return fmt.Errorf("%w: metadata needs a script, characters, and a selected title", ErrValidation)
	}
	pl.enter(p, models.StageGeneratingMetadata)

	var (
		wg       sync.WaitGroup
		meta     *models.YoutubeMetadata
		prompts  []string
		metaErr  error
		thumbErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		meta, metaErr = pl.gw.GenerateYoutubeMetadata(ctx, settings, p.FullScript())
	}()
	go func() {
		defer wg.Done()
		prompts, thumbErr = pl.gw.GenerateThumbnailPrompts(ctx, settings, p.FullScript(), p.Characters, p.SelectedTitle)
	}()
	wg.Wait()

	if metaErr != nil || thumbErr != nil {
		pl.enter(p, models.StageVideoGeneration)
		return fmt.Errorf("metadata generation failed: %w", errors.Join(metaErr, thumbErr))
	}

	p.YoutubeMetadata = meta
	options := make([]models.ThumbnailOption, len(prompts))
	for i, prompt := range prompts {
		options[i] = models.ThumbnailOption{ID: i, Prompt: prompt}
	}
	p.ThumbnailOptions = options
	pl.enter(p, models.StageMetadataReview)
	return nil
}

// ConfirmMetadata approves the metadata package and opens the preview.
func (pl *Pipeline) ConfirmMetadata(p *models.Project) error {
	if p.Stage != models.StageMetadataReview {
		return fmt.Errorf("%w: confirm metadata from %s", ErrInvalidState, p.Stage)
	}
	pl.enter(p, models.StageVideoPreview)
	return nil
}

// BackToStrategy abandons the written script and returns to the title
// choice. The strategy fields survive; the script does not.
func (pl *Pipeline) BackToStrategy(p *models.Project) error {
	if p.Stage != models.StageScriptWritingRoom {
		return fmt.Errorf("%w: back to strategy from %s", ErrInvalidState, p.Stage)
	}
	p.Script = nil
	p.GeneratedEpisodes = 0
	p.TTSScript = ""
	pl.enter(p, models.StageStrategyReview)
	return nil
}

// RegenerateAudio replaces the audio recommendations wholesale. The
// stage and the video prompts are untouched.
func (pl *Pipeline) RegenerateAudio(ctx context.Context, p *models.Project, settings models.ProviderSettings) error {
	if len(p.Script) == 0 {
		return fmt.Errorf("%w: no script to analyse", ErrValidation)
	}
	rec, err := pl.gw.GenerateAudioRecommendations(ctx, settings, p.FullScript())
	if err != nil {
		return fmt.Errorf("audio recommendation failed: %w", err)
	}
	p.AudioRecommendations = rec
	p.Touch()
	return nil
}

// NormalizeTitleOptions guarantees the user's own idea appears among the
// title choices: a missing idea is placed first, then the list is
// trimmed from the end to the display limit.
func NormalizeTitleOptions(idea string, options []string) []string {
	found := false
	for _, option := range options {
		if option == idea {
			found = true
			break
		}
	}
	if !found {
		options = append([]string{idea}, options...)
	}
	for len(options) > maxTitleOptions {
		options = options[:len(options)-1]
	}
	return options
}

// assignShotIDs numbers shots sequentially across all scenes in order.
// Ids are project-wide and stable for the life of the storyboard.
func assignShotIDs(scenes []models.Scene) {
	next := 0
	for i := range scenes {
		for j := range scenes[i].Shots {
			scenes[i].Shots[j].ID = next
			next++
		}
	}
}

// mergeVideoPrompts applies generated prompts onto the storyboard,
// matching scenes by name. A scene whose returned shot count differs
// from the storyboard is left untouched and logged; partial application
// within a scene never happens.
func (pl *Pipeline) mergeVideoPrompts(p *models.Project, generated []gateway.VideoPromptScene) {
	for _, gen := range generated {
		target := findScene(p.Scenes, gen.Name)
		if target == nil {
			pl.logger.Warn("Video prompts for unknown scene dropped",
				zap.String("projectId", p.ID),
				zap.String("scene", gen.Name),
			)
			continue
		}
		if len(target.Shots) != len(gen.Shots) {
			pl.logger.Warn("Video prompt shot count mismatch, scene skipped",
				zap.String("projectId", p.ID),
				zap.String("scene", gen.Name),
				zap.Int("expected", len(target.Shots)),
				zap.Int("got", len(gen.Shots)),
			)
			continue
		}
		for i := range gen.Shots {
			target.Shots[i].VideoPromptID = gen.Shots[i].VideoPromptID
			target.Shots[i].VideoPromptEN = gen.Shots[i].VideoPromptEN
		}
	}
}

// findScene returns the first scene with the given name.
func findScene(scenes []models.Scene, name string) *models.Scene {
	for i := range scenes {
		if scenes[i].Name == name {
			return &scenes[i]
		}
	}
	return nil
}

// truncateIdea derives the story-idea summary shown in the library from
// a pasted script.
func truncateIdea(script string) string {
	runes := []rune(script)
	if len(runes) <= 100 {
		return script
	}
	return string(runes[:100]) + "..."
}
