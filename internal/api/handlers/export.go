package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/export"
	"github.com/narratif/studio/internal/orchestrator"
)

type ExportHandler struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func NewExportHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{orch: orch, logger: logger}
}

// SRT downloads the narration as SubRip subtitles.
func (h *ExportHandler) SRT(c *gin.Context) {
	project, err := h.orch.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	if len(project.Scenes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project has no storyboard to export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.Name+".srt"))
	c.Data(http.StatusOK, "application/x-subrip", []byte(export.SRT(project.Scenes)))
}

// Prompts downloads the storyboard prompt document.
func (h *ExportHandler) Prompts(c *gin.Context) {
	project, err := h.orch.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	if len(project.Scenes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project has no storyboard to export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.Name+"-prompts.txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.PromptDump(project.Scenes)))
}
