package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/orchestrator"
)

type ProjectHandler struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func NewProjectHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{orch: orch, logger: logger}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	project, err := h.orch.CreateProject(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.ListProjects(c.Request.Context()))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.orch.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.orch.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// Save names the project if it still carries a placeholder and persists it.
func (h *ProjectHandler) Save(c *gin.Context) {
	project, err := h.orch.SaveProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, project)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.orch.RenameProject(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, h.logger, err, project)
		return
	}
	c.JSON(http.StatusOK, project)
}
