package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/middleware"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/users"
)

// UserHandler serves registration, login and roadmap tracking.
type UserHandler struct {
	manager *users.Manager
}

// NewUserHandler creates the handler.
func NewUserHandler(manager *users.Manager) *UserHandler {
	return &UserHandler{manager: manager}
}

// HandleRegister creates an account.
// POST /api/v1/users/register
func (h *UserHandler) HandleRegister(c *gin.Context) {
	var req models.UserRegister
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	u, err := h.manager.Register(c.Request.Context(), req)
	if errors.Is(err, users.ErrEmailTaken) {
		conflictResponse(c, err.Error())
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// HandleLogin exchanges credentials for a JWT.
// POST /api/v1/users/login
func (h *UserHandler) HandleLogin(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	u, err := h.manager.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		unauthorizedResponse(c, err.Error())
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	token, err := h.manager.GenerateToken(u)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// HandleMe returns the authenticated user's profile.
// GET /api/v1/users/me
func (h *UserHandler) HandleMe(c *gin.Context) {
	u, err := h.manager.GetByID(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if errors.Is(err, users.ErrNotFound) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// HandleTrack adds a roadmap to the authenticated user's tracked list.
// POST /api/v1/users/me/roadmaps/:id
func (h *UserHandler) HandleTrack(c *gin.Context) {
	err := h.manager.TrackRoadmap(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if errors.Is(err, users.ErrNotFound) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleUntrack removes a roadmap from the tracked list.
// DELETE /api/v1/users/me/roadmaps/:id
func (h *UserHandler) HandleUntrack(c *gin.Context) {
	err := h.manager.UntrackRoadmap(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if errors.Is(err, users.ErrNotFound) {
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
