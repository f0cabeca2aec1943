package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/audit"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/services"
)

// TopicHandler serves topic and task sub-resources of a roadmap.
type TopicHandler struct {
	service *services.TopicService
	audit   *audit.Logger
}

// NewTopicHandler creates the handler. audit may be nil in tests.
func NewTopicHandler(service *services.TopicService, auditLog *audit.Logger) *TopicHandler {
	return &TopicHandler{service: service, audit: auditLog}
}

func (h *TopicHandler) logMutation(c *gin.Context, action, roadmapID string, err error) {
	if h.audit == nil {
		return
	}
	h.audit.LogMutation(action, roadmapID, currentUser(c), c.ClientIP(), err)
}

// HandleListTopics returns all topics of a roadmap.
// GET /api/v1/roadmaps/:id/topics
func (h *TopicHandler) HandleListTopics(c *gin.Context) {
	topics, err := h.service.Topics(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// HandleListTasks returns all tasks of one topic.
// GET /api/v1/roadmaps/:id/topics/:topic_id/tasks
func (h *TopicHandler) HandleListTasks(c *gin.Context) {
	tasks, err := h.service.Tasks(c.Request.Context(), c.Param("id"), c.Param("topic_id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// HandleUpdateTopic replaces one topic.
// PUT /api/v1/roadmaps/:id/topics/:topic_id
func (h *TopicHandler) HandleUpdateTopic(c *gin.Context) {
	roadmapID := c.Param("id")

	var topic models.Topic
	if err := c.ShouldBindJSON(&topic); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	err := h.service.UpdateTopic(c.Request.Context(), roadmapID, c.Param("topic_id"), topic)
	h.logMutation(c, "update_topic", roadmapID, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("topic_id")})
}

// HandleDeleteTopic removes one topic and its tasks.
// DELETE /api/v1/roadmaps/:id/topics/:topic_id
func (h *TopicHandler) HandleDeleteTopic(c *gin.Context) {
	roadmapID := c.Param("id")

	err := h.service.DeleteTopic(c.Request.Context(), roadmapID, c.Param("topic_id"))
	h.logMutation(c, "delete_topic", roadmapID, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleUpdateTask replaces one task.
// PUT /api/v1/roadmaps/:id/topics/:topic_id/tasks/:task_id
func (h *TopicHandler) HandleUpdateTask(c *gin.Context) {
	roadmapID := c.Param("id")

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	err := h.service.UpdateTask(c.Request.Context(), roadmapID, c.Param("topic_id"), c.Param("task_id"), task)
	h.logMutation(c, "update_task", roadmapID, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("task_id")})
}

// HandleDeleteTask removes one task.
// DELETE /api/v1/roadmaps/:id/topics/:topic_id/tasks/:task_id
func (h *TopicHandler) HandleDeleteTask(c *gin.Context) {
	roadmapID := c.Param("id")

	err := h.service.DeleteTask(c.Request.Context(), roadmapID, c.Param("topic_id"), c.Param("task_id"))
	h.logMutation(c, "delete_task", roadmapID, err)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
