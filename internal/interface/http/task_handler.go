package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-todo/pkg/response"
)

type TaskHandler struct {
	Tasks  *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(tasks *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Logger: logger}
}

type createTaskRequest struct {
	Todo string `json:"todo" binding:"required,todotext"`
}

type updateTaskRequest struct {
	Todo *string `json:"todo" binding:"omitempty,todotext"`
	Done *bool   `json:"done"`
}

type searchTasksQuery struct {
	Q    string `form:"q" binding:"max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=100"`
}

type taskResponse struct {
	ID        int64     `json:"todo_id"`
	Todo      string    `json:"todo"`
	CreatedAt time.Time `json:"created_at"`
	Done      bool      `json:"done"`
}

func toTaskResponse(t *entity.Task) taskResponse {
	return taskResponse{ID: t.ID, Todo: t.Text, CreatedAt: t.CreatedAt, Done: t.Done}
}

func toTaskList(tasks []entity.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

// taskID parses :id. Anything that is not a positive integer cannot name a task.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *TaskHandler) identity(c *gin.Context) (*entity.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrMissingToken)
	}
	return identity, ok
}

func (h *TaskHandler) Create(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	t, err := h.Tasks.Create(c.Request.Context(), identity, req.Todo)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskResponse(t), "todo created", nil)
}

func (h *TaskHandler) List(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	tasks, err := h.Tasks.List(c.Request.Context(), identity)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskList(tasks), "todos", map[string]any{"count": len(tasks)})
}

func (h *TaskHandler) Get(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrTaskNotFound)
		return
	}
	t, err := h.Tasks.Get(c.Request.Context(), identity, id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "todo", nil)
}

func (h *TaskHandler) Update(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrTaskNotFound)
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	t, err := h.Tasks.Update(c.Request.Context(), identity, id, entity.TaskPatch{Text: req.Todo, Done: req.Done})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "todo updated", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrTaskNotFound)
		return
	}
	if err := h.Tasks.Delete(c.Request.Context(), identity, id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"todo_id": id}, "todo deleted", nil)
}

func (h *TaskHandler) Search(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	var q searchTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	tasks, err := h.Tasks.Search(c.Request.Context(), identity, q.Q, q.Size)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskList(tasks), "search results", map[string]any{"count": len(tasks), "q": q.Q})
}

func (h *TaskHandler) Export(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	url, err := h.Tasks.Export(c.Request.Context(), identity)
	if errors.Is(err, application.ErrExportUnavailable) {
		response.Error(c, http.StatusServiceUnavailable, err.Error(), response.ErrorBody{Code: "unavailable"})
		return
	}
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "todos exported", nil)
}
