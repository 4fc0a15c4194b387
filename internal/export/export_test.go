package export

import (
	"strings"
	"testing"

	"github.com/narratif/studio/internal/models"
)

func TestSRT(t *testing.T) {
	scenes := []models.Scene{
		{Name: "Dapur", Shots: []models.Shot{
			{ID: 0, Narration: "Pagi."},
			{ID: 1, Narration: strings.Repeat("x", 45)},
		}},
		{Name: "Ruang Tamu", Shots: []models.Shot{
			{ID: 2, Narration: "Malam."},
		}},
	}

	got := SRT(scenes)

	// 5 chars reads under the floor, so the first cue is 2 seconds. The
	// second starts after a half second gap and runs 45/15 = 3 seconds.
	want := "1\n00:00:00,000 --> 00:00:02,000\nPagi.\n\n" +
		"2\n00:00:02,500 --> 00:00:05,500\n" + strings.Repeat("x", 45) + "\n\n" +
		"3\n00:00:06,000 --> 00:00:08,000\nMalam.\n\n"
	if got != want {
		t.Errorf("SRT mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSRTNumbersAcrossScenes(t *testing.T) {
	scenes := []models.Scene{
		{Name: "A", Shots: []models.Shot{{Narration: "satu"}, {Narration: "dua"}}},
		{Name: "B", Shots: []models.Shot{{Narration: "tiga"}}},
	}

	got := SRT(scenes)
	for _, index := range []string{"1\n", "2\n", "3\n"} {
		if !strings.Contains(got, "\n"+index) && !strings.HasPrefix(got, index) {
			t.Errorf("missing cue index %q in:\n%s", strings.TrimSpace(index), got)
		}
	}
}

func TestSRTTimestampFormat(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{65.25, "00:01:05,250"},
		{3661.001, "01:01:01,001"},
	}
	for _, tt := range tests {
		if got := srtTimestamp(tt.seconds); got != tt.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestPromptDump(t *testing.T) {
	scenes := []models.Scene{
		{Name: "Dapur", Shots: []models.Shot{
			{ID: 0, Narration: "Pagi.", PromptEN: "kitchen wide shot", PromptID: "dapur wide shot"},
		}},
		{Name: "Ruang Tamu", Shots: []models.Shot{
			{ID: 1, Narration: "Malam.", PromptEN: "living room close-up", PromptID: "ruang tamu close-up"},
		}},
	}

	got := PromptDump(scenes)

	if !strings.HasPrefix(got, "SCENE: Dapur\n") {
		t.Errorf("dump should open with the first scene header:\n%s", got)
	}
	if !strings.Contains(got, "\n\n---\n\n") {
		t.Errorf("scenes should be separated by a rule")
	}
	for _, fragment := range []string{
		"SHOT 0", "NARRATION: Pagi.", "PROMPT (EN): kitchen wide shot", "PROMPT (ID): dapur wide shot",
		"SCENE: Ruang Tamu", "SHOT 1",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("missing %q in dump:\n%s", fragment, got)
		}
	}
}

func TestPromptDumpEmpty(t *testing.T) {
	if got := PromptDump(nil); got != "" {
		t.Errorf("empty storyboard should dump nothing, got %q", got)
	}
}
