package routes

import (
	"kanban-task-api/internal/handlers"
	"kanban-task-api/internal/middleware"
	"kanban-task-api/internal/realtime"
	"kanban-task-api/internal/repository"
	"kanban-task-api/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Route is one registered endpoint, used for the startup listing.
type Route struct {
	Method string
	Path   string
}

// SetupRoutes wires the repository, service and handlers onto a new router.
// hub receives board events and may be nil.
func SetupRoutes(db *gorm.DB, hub *realtime.Hub, logger *log.Logger) *gin.Engine {
	ginRouter := gin.New()
	// the request logger wraps recovery so panicking requests still get a line
	ginRouter.Use(
		middleware.RequestLogger(logger),
		handlers.Recovery(logger),
		middleware.CORS(),
	)

	var events service.EventPublisher
	if hub != nil {
		events = hub
	}
	taskService := service.NewTaskService(repository.NewTaskRepository(db), events)
	taskHandler := handlers.NewTaskHandler(taskService, logger)

	// Health check endpoint
	ginRouter.GET("/health", handlers.HealthHandler(db, logger))

	api := ginRouter.Group("/api")
	{
		tasks := api.Group("/tasks")
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.GetTasks)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
		tasks.DELETE("/:id", taskHandler.DeleteTask)

		if hub != nil {
			// Board event feed
			api.GET("/events", handlers.EventsHandler(hub, logger))
		}
	}

	return ginRouter
}

// List returns the registered endpoints in registration order.
func List(r *gin.Engine) []Route {
	infos := r.Routes()
	out := make([]Route, 0, len(infos))
	for _, info := range infos {
		out = append(out, Route{Method: info.Method, Path: info.Path})
	}
	return out
}
