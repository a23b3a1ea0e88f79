package handlers

import (
	"net/http"

	"kanban-task-api/internal/models"
	"kanban-task-api/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"notblank"`
	Description *string             `json:"description"`
	DueDate     string              `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Priority    models.TaskPriority `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=TODO DOING DONE"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *string              `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required,oneof=TODO DOING DONE"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     models.Date         `json:"dueDate"`
	CreatedAt   string              `json:"createdAt"`
}

func toResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   models.FormatDateTime(t.CreatedAt),
	}
}

// TaskHandler serves the /api/tasks endpoints.
type TaskHandler struct {
	service *service.TaskService
	logger  *log.Logger
}

// NewTaskHandler creates a handler over svc.
func NewTaskHandler(svc *service.TaskService, logger *log.Logger) *TaskHandler {
	registerValidators()
	return &TaskHandler{service: svc, logger: logger}
}

/*
*
GetTasks handles GET /api/tasks
Returns every task, or only those in the column named by ?status=.
*/
func (h *TaskHandler) GetTasks(c *gin.Context) {
	var filter *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseTaskStatus(raw)
		if err != nil {
			writeError(c, h.logger, service.NewValidationError(map[string]string{"status": service.InvalidValue(raw)}))
			return
		}
		filter = &status
	}

	tasks, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	task, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

/*
*
CreateTask handles POST /api/tasks
New tasks always start in TODO.
*/
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}

	due, err := models.ParseDate(req.DueDate)
	if err != nil {
		writeError(c, h.logger, service.NewValidationError(map[string]string{"dueDate": service.MsgInvalidDate}))
		return
	}

	task, err := h.service.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     &due,
		Priority:    &req.Priority,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(task))
}

/*
*
UpdateTask handles PUT /api/tasks/:id
Only the fields present in the body are changed.
*/
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := models.ParseDate(*req.DueDate)
		if err != nil {
			writeError(c, h.logger, service.NewValidationError(map[string]string{"dueDate": service.MsgInvalidDate}))
			return
		}
		in.DueDate = &due
	}

	task, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err)
		return
	}

	task, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id segment. On failure the 400 is already written.
func (h *TaskHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, service.NewValidationError(map[string]string{"id": service.MsgInvalidID}))
		return uuid.Nil, false
	}
	return id, true
}
