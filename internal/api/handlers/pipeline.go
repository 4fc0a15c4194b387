package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
	"github.com/narratif/studio/internal/orchestrator"
)

// PipelineHandler exposes the production transitions. Every response
// carries the full project so clients can replace their copy wholesale,
// including after failures that moved the project to a fallback stage.
type PipelineHandler struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func NewPipelineHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{orch: orch, logger: logger}
}

func (h *PipelineHandler) SubmitIdea(c *gin.Context) {
	var req struct {
		Idea     string            `json:"idea" binding:"required"`
		Language models.Language   `json:"language"`
		Style    models.StoryStyle `json:"style"`
		Duration int               `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = models.LanguageIndonesian
	}
	if req.Style == "" {
		req.Style = models.StyleDramaRealistis
	}
	if req.Duration <= 0 {
		req.Duration = models.DefaultDurationMin
	}

	project, err := h.orch.SubmitIdea(c.Request.Context(), c.Param("id"), orchestrator.IdeaSubmission{
		Idea:     req.Idea,
		Language: req.Language,
		Style:    req.Style,
		Duration: req.Duration,
	})
	h.respond(c, project, err)
}

func (h *PipelineHandler) SubmitScript(c *gin.Context) {
	var req struct {
		Script string `json:"script" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.SubmitScript(c.Request.Context(), c.Param("id"), req.Script)
	h.respond(c, project, err)
}

func (h *PipelineHandler) ConfirmStrategy(c *gin.Context) {
	var req struct {
		SelectedTitle string `json:"selectedTitle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.ConfirmStrategy(c.Request.Context(), c.Param("id"), req.SelectedTitle)
	h.respond(c, project, err)
}

func (h *PipelineHandler) BackToStrategy(c *gin.Context) {
	project, err := h.orch.BackToStrategy(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) ContinueScript(c *gin.Context) {
	project, err := h.orch.ContinueScript(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) GenerateTTS(c *gin.Context) {
	project, err := h.orch.GenerateTTS(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) FinalizeScript(c *gin.Context) {
	project, err := h.orch.FinalizeScript(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) UpdateScript(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.UpdateScript(c.Request.Context(), c.Param("id"), req.Text)
	h.respond(c, project, err)
}

func (h *PipelineHandler) UpdateTTSScript(c *gin.Context) {
	var req struct {
		TTSScript string `json:"ttsScript" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.UpdateTTSScript(c.Request.Context(), c.Param("id"), req.TTSScript)
	h.respond(c, project, err)
}

func (h *PipelineHandler) ConfirmCharacters(c *gin.Context) {
	project, err := h.orch.ConfirmCharacters(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) UpdateCharacter(c *gin.Context) {
	var character models.Character
	if err := c.ShouldBindJSON(&character); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	character.ID = c.Param("characterId")
	project, err := h.orch.UpdateCharacter(c.Request.Context(), c.Param("id"), character)
	h.respond(c, project, err)
}

func (h *PipelineHandler) GenerateCharacterImage(c *gin.Context) {
	project, err := h.orch.GenerateCharacterImage(c.Request.Context(), c.Param("id"), c.Param("characterId"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) ProceedToAudio(c *gin.Context) {
	project, err := h.orch.ProceedToAudio(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) RegenerateAudio(c *gin.Context) {
	project, err := h.orch.RegenerateAudio(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) ProceedToVideo(c *gin.Context) {
	project, err := h.orch.ProceedToVideo(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) ProceedToMetadata(c *gin.Context) {
	project, err := h.orch.ProceedToMetadata(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) ConfirmMetadata(c *gin.Context) {
	project, err := h.orch.ConfirmMetadata(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *PipelineHandler) UpdateShotPrompt(c *gin.Context) {
	shotID, ok := h.shotID(c)
	if !ok {
		return
	}
	var req struct {
		PromptID  string `json:"promptId"`
		PromptEN  string `json:"promptEn"`
		Narration string `json:"narration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.UpdateShotPrompt(c.Request.Context(), c.Param("id"), c.Param("sceneName"), shotID,
		req.PromptID, req.PromptEN, req.Narration)
	h.respond(c, project, err)
}

func (h *PipelineHandler) GenerateShotImage(c *gin.Context) {
	shotID, ok := h.shotID(c)
	if !ok {
		return
	}
	project, err := h.orch.GenerateShotImage(c.Request.Context(), c.Param("id"), c.Param("sceneName"), shotID)
	h.respond(c, project, err)
}

func (h *PipelineHandler) UploadShotImage(c *gin.Context) {
	shotID, ok := h.shotID(c)
	if !ok {
		return
	}
	var req struct {
		DataURL string `json:"dataUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.orch.UploadShotImage(c.Request.Context(), c.Param("id"), c.Param("sceneName"), shotID, req.DataURL)
	h.respond(c, project, err)
}

func (h *PipelineHandler) GenerateShotVideo(c *gin.Context) {
	shotID, ok := h.shotID(c)
	if !ok {
		return
	}
	project, err := h.orch.GenerateShotVideo(c.Request.Context(), c.Param("id"), c.Param("sceneName"), shotID)
	h.respond(c, project, err)
}

func (h *PipelineHandler) GenerateThumbnailImage(c *gin.Context) {
	thumbnailID, err := strconv.Atoi(c.Param("thumbnailId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thumbnail id must be a number"})
		return
	}
	project, opErr := h.orch.GenerateThumbnailImage(c.Request.Context(), c.Param("id"), thumbnailID)
	h.respond(c, project, opErr)
}

// ViralIdeas generates story title suggestions without touching a project.
func (h *PipelineHandler) ViralIdeas(c *gin.Context) {
	titles, err := h.orch.ViralTitles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

func (h *PipelineHandler) shotID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("shotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shot id must be a number"})
		return 0, false
	}
	return id, true
}

func (h *PipelineHandler) respond(c *gin.Context, project *models.Project, err error) {
	if err != nil {
		respondError(c, h.logger, err, project)
		return
	}
	c.JSON(http.StatusOK, project)
}
