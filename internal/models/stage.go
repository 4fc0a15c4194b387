package models

// Stage is a named point in the production pipeline. It is persisted with
// the project so a reload resumes at the correct screen.
type Stage string

const (
	StageProjectSelector        Stage = "project_selector"
	StageIdeaInput              Stage = "idea_input"
	StageGeneratingStrategy     Stage = "generating_strategy"
	StageStrategyReview         Stage = "strategy_review"
	StageGeneratingScript       Stage = "generating_script"
	StageScriptWritingRoom      Stage = "script_writing_room"
	StageCharacterReview        Stage = "character_review"
	StageGeneratingScenes       Stage = "generating_scenes"
	StageEditing                Stage = "editing"
	StageGeneratingAudioPrompts Stage = "generating_audio_prompts"
	StageAudioVideoGeneration   Stage = "audio_video_generation"
	StageVideoGeneration        Stage = "video_generation"
	StageGeneratingMetadata     Stage = "generating_metadata"
	StageMetadataReview         Stage = "metadata_review"
	StageVideoPreview           Stage = "video_preview"
)

// Transient reports whether the stage is entered only as the effect of an
// in-flight gateway call and left automatically when it resolves. No user
// input is accepted in a transient stage.
func (s Stage) Transient() bool {
	switch s {
	case StageGeneratingStrategy, StageGeneratingScript, StageGeneratingScenes,
		StageGeneratingAudioPrompts, StageGeneratingMetadata:
		return true
	}
	return false
}
