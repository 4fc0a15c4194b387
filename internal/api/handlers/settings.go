package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
	"github.com/narratif/studio/internal/orchestrator"
)

type SettingsHandler struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func NewSettingsHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{orch: orch, logger: logger}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.GetSettings(c.Request.Context()))
}

func (h *SettingsHandler) Put(c *gin.Context) {
	var settings models.ProviderSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.orch.PutSettings(c.Request.Context(), settings); err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, settings)
}
