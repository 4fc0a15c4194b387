package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Default display names assigned before the user has produced a title.
// Saving refuses to persist a project that still carries one of these and
// has nothing to derive a real name from.
const (
	DefaultProjectName    = "Proyek Baru Tanpa Judul"
	ScriptProjectName     = "Proyek dari Naskah"
	DefaultDurationMin    = 20
	WordsPerMinute        = 140
	EpisodesPerGeneration = 3
)

type Language string

const (
	LanguageIndonesian Language = "indonesian"
	LanguageEnglish    Language = "english"
)

type StoryStyle string

const (
	StyleDramaRealistis     StoryStyle = "drama-realistis"
	StyleThrillerPsikologis StoryStyle = "thriller-psikologis"
	StylePetualanganFantasi StoryStyle = "petualangan-fantasi"
)

type SubmissionType string

const (
	SubmissionIdea   SubmissionType = "idea"
	SubmissionScript SubmissionType = "script"
)

// ScriptChunks is the ordered sequence of generated script increments.
// Concatenation in order yields the full script. Older persisted projects
// stored the script as a single string; unmarshalling wraps those as a
// one-element sequence.
type ScriptChunks []string

func (s *ScriptChunks) UnmarshalJSON(data []byte) error {
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err == nil {
		*s = chunks
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*s = nil
	} else {
		*s = []string{single}
	}
	return nil
}

// Join returns the full script text.
func (s ScriptChunks) Join() string {
	return strings.Join(s, "\n\n")
}

// CharacterDescription is the structured character sheet.
type CharacterDescription struct {
	Gender   string `json:"gender"`
	Age      string `json:"age"`
	BodyType string `json:"bodyType"`
	Hair     string `json:"hair"`
	SkinTone string `json:"skinTone"`
	Outfit   string `json:"outfit"`
}

// Character is one cast member. ConsistencyString is reused verbatim in
// every downstream visual prompt that references the character.
type Character struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       CharacterDescription `json:"description"`
	ConsistencyString string               `json:"consistencyString"`
	GenerationPrompt  string               `json:"generationPrompt,omitempty"`
	ImageURL          string               `json:"imageUrl,omitempty"`
	IsGeneratingImage bool                 `json:"isGeneratingImage,omitempty"`
}

// Shot is the smallest visual unit: one narration sentence plus localized
// image/video prompt pairs. IDs are unique project-wide, assigned
// sequentially across all scenes at storyboard time and never reused.
type Shot struct {
	ID                int    `json:"id"`
	PromptID          string `json:"promptId"`
	PromptEN          string `json:"promptEn"`
	VideoPromptID     string `json:"videoPromptId,omitempty"`
	VideoPromptEN     string `json:"videoPromptEn,omitempty"`
	Narration         string `json:"narration"`
	ImageURL          string `json:"imageUrl,omitempty"`
	IsGeneratingImage bool   `json:"isGeneratingImage,omitempty"`
	VideoURL          string `json:"videoUrl,omitempty"`
	IsGeneratingVideo bool   `json:"isGeneratingVideo,omitempty"`
}

// Scene is an ordered group of shots sharing a name.
type Scene struct {
	Name  string `json:"name"`
	Shots []Shot `json:"shots"`
}

// AudioRecommendations is wholesale-replaced on regeneration, never merged.
type AudioRecommendations struct {
	BGM         []string `json:"bgm"`
	SFX         []string `json:"sfx"`
	BGMKeywords []string `json:"bgmKeywords"`
	SFXKeywords []string `json:"sfxKeywords"`
}

type YoutubeMetadata struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Hashtags          []string `json:"hashtags"`
	AlternativeTitles []string `json:"alternativeTitles"`
}

type ThumbnailOption struct {
	ID           int    `json:"id"`
	Prompt       string `json:"prompt"`
	ImageURL     string `json:"imageUrl,omitempty"`
	IsGenerating bool   `json:"isGenerating,omitempty"`
}

// Project is the unit of work; one project is one video production.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
	Stage        Stage  `json:"stage"`

	StoryIdea      string         `json:"storyIdea"`
	Language       Language       `json:"language"`
	StoryStyle     StoryStyle     `json:"storyStyle"`
	Duration       int            `json:"duration"`
	SubmissionType SubmissionType `json:"submissionType,omitempty"`

	Synopsis       string   `json:"synopsis,omitempty"`
	Genre          string   `json:"genre,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	TitleOptions   []string `json:"titleOptions,omitempty"`
	SelectedTitle  string   `json:"selectedTitle,omitempty"`

	Script            ScriptChunks `json:"script"`
	TTSScript         string       `json:"ttsScript,omitempty"`
	GeneratedEpisodes int          `json:"generatedEpisodes,omitempty"`

	Characters []Character `json:"characters"`
	Scenes     []Scene     `json:"scenes"`

	AudioRecommendations *AudioRecommendations `json:"audioRecommendations"`
	YoutubeMetadata      *YoutubeMetadata      `json:"youtubeMetadata,omitempty"`
	ThumbnailOptions     []ThumbnailOption     `json:"thumbnailOptions,omitempty"`
}

// NewProject creates an empty project at the idea-input stage.
func NewProject(id string) *Project {
	return &Project{
		ID:             id,
		Name:           DefaultProjectName,
		LastModified:   time.Now().UnixMilli(),
		Stage:          StageIdeaInput,
		Language:       LanguageIndonesian,
		StoryStyle:     StyleDramaRealistis,
		Duration:       DefaultDurationMin,
		SubmissionType: SubmissionIdea,
		Script:         ScriptChunks{},
		Characters:     []Character{},
		Scenes:         []Scene{},
	}
}

// Touch updates the modification timestamp; every mutation goes through it.
func (p *Project) Touch() {
	p.LastModified = time.Now().UnixMilli()
}

// FullScript returns the concatenated script body.
func (p *Project) FullScript() string {
	return p.Script.Join()
}

// WordCount counts whitespace-separated words across all chunks.
func (p *Project) WordCount() int {
	return len(strings.Fields(p.FullScript()))
}

// EstimatedMinutes estimates narration length at the fixed reading speed.
func (p *Project) EstimatedMinutes() int {
	return int(float64(p.WordCount())/WordsPerMinute + 0.5)
}

// TargetReached reports whether the script covers the requested duration.
func (p *Project) TargetReached() bool {
	return p.EstimatedMinutes() >= p.Duration
}

// HasDefaultName reports whether the display name is still a placeholder.
func (p *Project) HasDefaultName() bool {
	return p.Name == DefaultProjectName || p.Name == ScriptProjectName
}

// FindShot locates a shot by its (sceneName, shotID) address. Returns nil
// when either the scene or the shot is missing.
func (p *Project) FindShot(sceneName string, shotID int) *Shot {
	for i := range p.Scenes {
		if p.Scenes[i].Name != sceneName {
			continue
		}
		for j := range p.Scenes[i].Shots {
			if p.Scenes[i].Shots[j].ID == shotID {
				return &p.Scenes[i].Shots[j]
			}
		}
	}
	return nil
}

// FindCharacter locates a character by id.
func (p *Project) FindCharacter(id string) *Character {
	for i := range p.Characters {
		if p.Characters[i].ID == id {
			return &p.Characters[i]
		}
	}
	return nil
}
