package gateway

import (
	"fmt"
	"strings"

	"github.com/narratif/studio/internal/models"
)

// Prompt templates. Placeholders are substituted with strings.Replacer;
// Indonesian is the primary market, so the Indonesian variants lead.

const strategyPrompt = `Anda adalah ahli strategi konten YouTube untuk pasar drama Indonesia.
Analisis ide cerita berikut dan susun strategi konten.

IDE CERITA:
{idea}

Hasilkan HANYA JSON dengan bentuk:
{"synopsis": "sinopsis 2-3 paragraf", "genre": "genre utama", "targetAudience": "deskripsi audiens target", "titleOptions": ["4 opsi judul clickbait yang provokatif"]}`

const viralIdeaPrompt = `Anda adalah ahli strategi konten YouTube yang spesialis ide cerita drama viral untuk pasar Indonesia.
Hasilkan 5 ide cerita dalam bentuk judul clickbait yang provokatif: konflik rumah tangga,
pengkhianatan, balas dendam, rahasia keluarga. Gunakan kata emosional (menangis, hancur,
terbongkar, diremehkan) dan plot twist di akhir judul.

Hasilkan HANYA sebuah JSON array berisi 5 string judul.`

const initialScriptPromptID = `Anda adalah penulis naskah drama YouTube berepisode.
Tulis 3 episode pertama dari cerita berjudul "{title}" dengan gaya {style}.
Target total durasi video: {duration} menit narasi.

SINOPSIS:
{idea}

Tulis narasi mengalir dengan gaya "Sahabat Pencerita" yang hangat dan personal.
Hasilkan HANYA teks naskah, tanpa format tambahan.`

const initialScriptPromptEN = `You are an episodic YouTube drama scriptwriter.
Write the first 3 episodes of the story titled "{title}" in the {style} style.
Target total narration length: {duration} minutes.

SYNOPSIS:
{idea}

Write flowing narration in a warm, personal storyteller voice.
Return ONLY the script text, no extra formatting.`

const continueScriptPromptID = `Lanjutkan naskah drama berikut dengan 3 episode berikutnya.
Jaga konsistensi karakter, alur, dan gaya penceritaan. Jangan mengulang bagian yang sudah ada.

NASKAH SEJAUH INI:
{existingScript}

Hasilkan HANYA teks lanjutan naskah.`

const continueScriptPromptEN = `Continue the following drama script with the next 3 episodes.
Keep characters, plot, and narration style consistent. Do not repeat existing material.

SCRIPT SO FAR:
{existingScript}

Return ONLY the continuation text.`

const ttsScriptPrompt = `Anda adalah sutradara audio. Konversikan SELURUH naskah berikut menjadi
satu blok SSML yang valid: bungkus dalam <speak>, setiap paragraf dalam <p>, gunakan
<prosody> untuk membedakan suara karakter dan <emphasis level="strong"> pada kata kunci
emosional. Gunakan <break> sangat jarang, hanya untuk transisi antar adegan besar.

NASKAH:
{script}

Hasilkan HANYA blok SSML lengkap.`

const characterSheetsPrompt = `Anda adalah casting director dan character designer.
Baca naskah berikut dan ekstrak setiap karakter penting.

NASKAH:
{script}

Untuk setiap karakter, buat deskripsi fisik terstruktur dan satu "consistency string":
deskripsi visual lengkap satu kalimat dalam Bahasa Inggris yang akan disalin verbatim
ke setiap prompt gambar yang menampilkan karakter itu.

Hasilkan HANYA JSON array dengan elemen berbentuk:
{"name": "...", "description": {"gender": "...", "age": "...", "bodyType": "...", "hair": "...", "skinTone": "...", "outfit": "..."}, "consistencyString": "..."}`

const storyboardPromptID = `Anda adalah sutradara, sinematografer, dan prompt engineer.
Pecah naskah menjadi adegan (scenes) dengan nama deskriptif, lalu pecah setiap adegan
menjadi shot sinematik (wide shot, medium shot, close-up).

ATURAN:
1. Setiap prompt WAJIB diawali dengan gaya visual proyek: "{visualStyle}"
2. Untuk setiap karakter dalam shot, salin deskripsi LENGKAP dari Character Bible tanpa diubah.
3. Buat prompt dalam Bahasa Inggris (promptEn) dan terjemahan Indonesia (promptId);
   jangan terjemahkan istilah teknis sinematografi.
4. Sertakan satu kalimat narasi kunci dari naskah untuk setiap shot.

CHARACTER BIBLE (SUMBER KEBENARAN TUNGGAL):
{characters}

NASKAH:
{script}

Hasilkan HANYA JSON array: [{"name": "Nama Adegan", "shots": [{"promptId": "...", "promptEn": "...", "narration": "..."}]}]`

const storyboardPromptEN = `You are a director, cinematographer, and prompt engineer.
Break the script into scenes with descriptive names, then break each scene into
cinematic shots (wide shot, medium shot, close-up).

RULES:
1. Every prompt MUST begin with the project visual style: "{visualStyle}"
2. For every character in a shot, copy their FULL description from the Character Bible verbatim.
3. Produce an English prompt (promptEn) and an Indonesian translation (promptId);
   keep cinematography terms untranslated.
4. Include one key narration sentence from the script for each shot.

CHARACTER BIBLE (SINGLE SOURCE OF TRUTH):
{characters}

SCRIPT:
{script}

Return ONLY a JSON array: [{"name": "Scene Name", "shots": [{"promptId": "...", "promptEn": "...", "narration": "..."}]}]`

const visualStyleString = "cinematic film still, moody high-contrast lighting with soft diffused light, dominant blue-gray and muted color palette, shot on Arri Alexa with 35mm lens, subtle film grain, hyper-detailed, 4K, sharp focus, widescreen (1792x1024)"

const audioRecommendationsPrompt = `Anda adalah music supervisor dan sound designer.
Analisis naskah berikut dan rekomendasikan audio.

NASKAH:
{script}

Hasilkan HANYA JSON berbentuk:
{"bgm": ["3-4 prompt BGM deskriptif"], "sfx": ["3-4 prompt SFX penting"], "bgmKeywords": ["5-7 kata kunci pencarian BGM"], "sfxKeywords": ["5-7 kata kunci pencarian SFX"]}`

const videoPromptsPromptID = `Anda adalah sutradara video AI. Untuk setiap shot di storyboard berikut,
buat prompt video (gerakan kamera, aksi, durasi 5-8 detik) dalam Bahasa Inggris
(videoPromptEn) dan Indonesia (videoPromptId). Gunakan consistency string karakter verbatim.
Pertahankan nama adegan dan jumlah shot PERSIS seperti input.

CHARACTER BIBLE:
{characters}

STORYBOARD:
{scenes}

Hasilkan HANYA JSON array: [{"name": "Nama Adegan", "shots": [{"videoPromptId": "...", "videoPromptEn": "..."}]}]`

const videoPromptsPromptEN = `You are an AI video director. For every shot in the storyboard below,
produce a video prompt (camera motion, action, 5-8 second duration) in English
(videoPromptEn) and Indonesian (videoPromptId). Use character consistency strings verbatim.
Preserve scene names and shot counts EXACTLY as given.

CHARACTER BIBLE:
{characters}

STORYBOARD:
{scenes}

Return ONLY a JSON array: [{"name": "Scene Name", "shots": [{"videoPromptId": "...", "videoPromptEn": "..."}]}]`

const youtubeMetadataPrompt = `Anda adalah YouTube growth strategist dengan gaya "Sahabat Pencerita".
Analisis naskah berikut dan hasilkan paket metadata.

NASKAH:
{script}

Hasilkan HANYA JSON berbentuk:
{"title": "judul utama paling kuat", "description": "deskripsi 3 paragraf: hook, sinopsis tanpa spoiler, CTA personal", "hashtags": ["7 hashtag"], "alternativeTitles": ["4 judul alternatif"]}`

const thumbnailPromptsPrompt = `Anda adalah thumbnail designer YouTube. Berdasarkan naskah dan judul
"{title}", buat 4 prompt gambar thumbnail dramatis dalam Bahasa Inggris: ekspresi emosional
kuat, komposisi close-up, warna kontras tinggi. Gunakan consistency string karakter verbatim.

CHARACTER BIBLE:
{characters}

NASKAH:
{script}

Hasilkan HANYA JSON array berisi 4 string prompt.`

// characterPortraitPrompt frames a character's consistency string as a
// neutral studio reference portrait.
func characterPortraitPrompt(consistencyString string) string {
	return fmt.Sprintf("cinematic photo, character concept art, ultra realistic, sharp focus, 8K, high detail. Medium close-up portrait of %s. Neutral expression, looking directly at the camera, plain out-of-focus neutral grey studio background, soft even professional studio lighting.", consistencyString)
}

// formatCharacterBible renders the cast as the fixed-text block every
// visual prompt builds on.
func formatCharacterBible(characters []models.Character) string {
	lines := make([]string, 0, len(characters))
	for _, c := range characters {
		lines = append(lines, fmt.Sprintf("%s Character Bible: %s", c.Name, c.ConsistencyString))
	}
	return strings.Join(lines, "\n")
}

// formatScenesForVideoPrompt renders the storyboard compactly for the
// video-prompt request.
func formatScenesForVideoPrompt(scenes []models.Scene) string {
	var sb strings.Builder
	for _, scene := range scenes {
		fmt.Fprintf(&sb, "SCENE: %s (%d shots)\n", scene.Name, len(scene.Shots))
		for i, shot := range scene.Shots {
			fmt.Fprintf(&sb, "  SHOT %d: %s | %s\n", i+1, shot.Narration, shot.PromptEN)
		}
	}
	return sb.String()
}

func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}
