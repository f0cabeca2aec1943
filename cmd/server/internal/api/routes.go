package api

import (
	"github.com/gin-gonic/gin"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/middleware"
)

// RegisterRoutes mounts the versioned API. Reads are public; roadmap
// mutations require an admin token, tracking routes any valid token.
func RegisterRoutes(r *gin.Engine, roadmaps *RoadmapHandler, topics *TopicHandler, userHandler *UserHandler, parser middleware.TokenParser) {
	v1 := r.Group("/api/v1")

	usersGroup := v1.Group("/users")
	{
		usersGroup.POST("/register", userHandler.HandleRegister)
		usersGroup.POST("/login", userHandler.HandleLogin)

		me := usersGroup.Group("/me", middleware.AuthRequired(parser))
		{
			me.GET("", userHandler.HandleMe)
			me.POST("/roadmaps/:id", userHandler.HandleTrack)
			me.DELETE("/roadmaps/:id", userHandler.HandleUntrack)
		}
	}

	public := v1.Group("/roadmaps")
	{
		public.GET("", roadmaps.HandleList)
		public.GET("/ids", roadmaps.HandleIDs)
		public.GET("/:id", roadmaps.HandleGet)
		public.GET("/:id/topics", topics.HandleListTopics)
		public.GET("/:id/topics/:topic_id/tasks", topics.HandleListTasks)
	}

	admin := v1.Group("/roadmaps", middleware.AuthRequired(parser), middleware.AdminRequired())
	{
		admin.POST("", roadmaps.HandleCreate)
		admin.PUT("/:id", roadmaps.HandleUpdate)
		admin.PATCH("/:id", roadmaps.HandlePatch)
		admin.DELETE("/:id", roadmaps.HandleDelete)
		admin.DELETE("", roadmaps.HandleDeleteAll)
		admin.PUT("/:id/topics/:topic_id", topics.HandleUpdateTopic)
		admin.DELETE("/:id/topics/:topic_id", topics.HandleDeleteTopic)
		admin.PUT("/:id/topics/:topic_id/tasks/:task_id", topics.HandleUpdateTask)
		admin.DELETE("/:id/topics/:topic_id/tasks/:task_id", topics.HandleDeleteTask)
	}
}
