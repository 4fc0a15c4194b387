// Package export renders project content into downloadable documents.
package export

import (
	"fmt"
	"strings"

	"github.com/narratif/studio/internal/models"
)

const (
	// minShotSeconds is the floor for a subtitle cue; very short
	// narration still needs time to read.
	minShotSeconds = 2.0
	// charsPerSecond is the assumed narration reading speed.
	charsPerSecond = 15.0
	// cueGapSeconds separates consecutive cues.
	cueGapSeconds = 0.5
)

// SRT renders the storyboard narration as SubRip subtitles. Cue length
// is estimated from narration length with a two second floor; cues are
// numbered from 1 across all scenes in order.
func SRT(scenes []models.Scene) string {
	var sb strings.Builder
	index := 1
	cursor := 0.0

	for _, scene := range scenes {
		for _, shot := range scene.Shots {
			duration := float64(len([]rune(shot.Narration))) / charsPerSecond
			if duration < minShotSeconds {
				duration = minShotSeconds
			}
			start := cursor
			end := cursor + duration

			fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", index, srtTimestamp(start), srtTimestamp(end), shot.Narration)

			cursor = end + cueGapSeconds
			index++
		}
	}
	return sb.String()
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	millis %= 3600000
	m := millis / 60000
	millis %= 60000
	s := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// PromptDump renders the storyboard as a plain-text document for use
// outside the app: one block per scene, shots with narration and both
// prompt languages, scenes separated by a rule.
func PromptDump(scenes []models.Scene) string {
	blocks := make([]string, 0, len(scenes))
	for _, scene := range scenes {
		var sb strings.Builder
		fmt.Fprintf(&sb, "SCENE: %s\n", scene.Name)
		for _, shot := range scene.Shots {
			fmt.Fprintf(&sb, "\nSHOT %d\nNARRATION: %s\nPROMPT (EN): %s\nPROMPT (ID): %s\n",
				shot.ID, shot.Narration, shot.PromptEN, shot.PromptID)
		}
		blocks = append(blocks, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
