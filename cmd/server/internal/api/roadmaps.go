package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/audit"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/services"
)

// RoadmapHandler serves the roadmap collection.
type RoadmapHandler struct {
	service *services.RoadmapService
	audit   *audit.Logger
}

// NewRoadmapHandler creates the handler. audit may be nil in tests.
func NewRoadmapHandler(service *services.RoadmapService, auditLog *audit.Logger) *RoadmapHandler {
	return &RoadmapHandler{service: service, audit: auditLog}
}

func (h *RoadmapHandler) logMutation(c *gin.Context, action, roadmapID string, err error) {
	if h.audit == nil {
		return
	}
	h.audit.LogMutation(action, roadmapID, currentUser(c), c.ClientIP(), err)
}

// HandleList lists roadmaps with pagination and optional title filtering.
// GET /api/v1/roadmaps?page=&page_size=&q=
func (h *RoadmapHandler) HandleList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	query := c.Query("q")

	result, err := h.service.List(c.Request.Context(), page, pageSize, query)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleIDs returns every roadmap id.
// GET /api/v1/roadmaps/ids
func (h *RoadmapHandler) HandleIDs(c *gin.Context) {
	ids, err := h.service.IDs(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

// HandleGet returns one roadmap by id.
// GET /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandleGet(c *gin.Context) {
	rm, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rm)
}

// HandleCreate creates a roadmap; the id is generated from the title.
// POST /api/v1/roadmaps
func (h *RoadmapHandler) HandleCreate(c *gin.Context) {
	var req models.RoadmapCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	id, err := h.service.Create(c.Request.Context(), req)
	h.logMutation(c, "create", id, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// HandleUpdate replaces a roadmap in full.
// PUT /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandleUpdate(c *gin.Context) {
	id := c.Param("id")

	var req models.RoadmapCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	err := h.service.Update(c.Request.Context(), id, req)
	h.logMutation(c, "update", id, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// HandlePatch applies a partial update; absent fields stay untouched.
// PATCH /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandlePatch(c *gin.Context) {
	id := c.Param("id")

	var req models.RoadmapUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	err := h.service.Patch(c.Request.Context(), id, req)
	h.logMutation(c, "patch", id, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// HandleDelete removes one roadmap.
// DELETE /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandleDelete(c *gin.Context) {
	id := c.Param("id")

	err := h.service.Delete(c.Request.Context(), id)
	h.logMutation(c, "delete", id, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleDeleteAll removes every roadmap.
// DELETE /api/v1/roadmaps
func (h *RoadmapHandler) HandleDeleteAll(c *gin.Context) {
	err := h.service.DeleteAll(c.Request.Context())
	h.logMutation(c, "delete_all", "", err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
