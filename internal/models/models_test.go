package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestScriptChunksUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"array form", `["satu","dua"]`, []string{"satu", "dua"}},
		{"legacy string form", `"naskah tunggal"`, []string{"naskah tunggal"}},
		{"legacy empty string", `""`, nil},
		{"empty array", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chunks ScriptChunks
			if err := json.Unmarshal([]byte(tt.input), &chunks); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(chunks) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(chunks), len(tt.want))
			}
			for i := range chunks {
				if chunks[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], tt.want[i])
				}
			}
		})
	}
}

func TestScriptChunksJoin(t *testing.T) {
	chunks := ScriptChunks{"bagian satu", "bagian dua"}
	if got := chunks.Join(); got != "bagian satu\n\nbagian dua" {
		t.Errorf("Join = %q", got)
	}
}

func TestEstimatedMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{70, 1},   // rounds half up
		{140, 1},
		{210, 2},
		{280, 2},
	}
	for _, tt := range tests {
		p := NewProject("x")
		if tt.words > 0 {
			p.Script = ScriptChunks{strings.TrimSpace(strings.Repeat("kata ", tt.words))}
		}
		if got := p.EstimatedMinutes(); got != tt.want {
			t.Errorf("EstimatedMinutes(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestTargetReached(t *testing.T) {
	p := NewProject("x")
	p.Duration = 2
	p.Script = ScriptChunks{strings.TrimSpace(strings.Repeat("kata ", 140))}
	if p.TargetReached() {
		t.Error("one minute of narration should not reach a two minute target")
	}
	p.Script = append(p.Script, strings.TrimSpace(strings.Repeat("kata ", 140)))
	if !p.TargetReached() {
		t.Error("two minutes of narration should reach a two minute target")
	}
}

func TestHasDefaultName(t *testing.T) {
	p := NewProject("x")
	if !p.HasDefaultName() {
		t.Error("new project carries the placeholder name")
	}
	p.Name = ScriptProjectName
	if !p.HasDefaultName() {
		t.Error("script placeholder counts as default")
	}
	p.Name = "Judul Saya"
	if p.HasDefaultName() {
		t.Error("custom name is not a default")
	}
}

func TestFindShotAndCharacter(t *testing.T) {
	p := NewProject("x")
	p.Characters = []Character{{ID: "Ratna", Name: "Ratna"}}
	p.Scenes = []Scene{
		{Name: "Dapur", Shots: []Shot{{ID: 0}, {ID: 1}}},
		{Name: "Teras", Shots: []Shot{{ID: 2}}},
	}

	if shot := p.FindShot("Teras", 2); shot == nil {
		t.Error("existing shot not found")
	}
	if shot := p.FindShot("Dapur", 2); shot != nil {
		t.Error("shot id must match within the named scene only")
	}
	if shot := p.FindShot("Hilang", 0); shot != nil {
		t.Error("unknown scene should find nothing")
	}
	if c := p.FindCharacter("Ratna"); c == nil {
		t.Error("existing character not found")
	}
	if c := p.FindCharacter("Bima"); c != nil {
		t.Error("unknown character should find nothing")
	}
}

func TestStageTransient(t *testing.T) {
	transient := []Stage{
		StageGeneratingStrategy, StageGeneratingScript, StageGeneratingScenes,
		StageGeneratingAudioPrompts, StageGeneratingMetadata,
	}
	stable := []Stage{
		StageProjectSelector, StageIdeaInput, StageStrategyReview, StageScriptWritingRoom,
		StageCharacterReview, StageEditing, StageAudioVideoGeneration, StageVideoGeneration,
		StageMetadataReview, StageVideoPreview,
	}
	for _, s := range transient {
		if !s.Transient() {
			t.Errorf("%s should be transient", s)
		}
	}
	for _, s := range stable {
		if s.Transient() {
			t.Errorf("%s should not be transient", s)
		}
	}
}
