package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/zen-task-api/internal/dto"
	apierrors "github.com/yukikurage/zen-task-api/internal/errors"
	"github.com/yukikurage/zen-task-api/internal/middleware"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/services"
	"github.com/yukikurage/zen-task-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	type CreateTaskRequest struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		DueDate     string  `json:"dueDate"`
		IsUrgent    bool    `json:"isUrgent"`
		IsImportant bool    `json:"isImportant"`
		Quadrant    *string `json:"quadrant"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := utils.ParseOptionalDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Urgent:      req.IsUrgent,
		Important:   req.IsImportant,
	}
	if dueDate != nil {
		input.DueDate = *dueDate
	}
	if req.Quadrant != nil {
		quadrant, _ := models.ParseQuadrant(*req.Quadrant)
		input.Quadrant = &quadrant
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), principal, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskView(*task))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	taskID, _ := middleware.GetTaskID(c)

	task, err := h.taskService.GetTask(c.Request.Context(), principal, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskView(*task))
}

// UpdateTask applies a partial update. Omitted or null fields are kept.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	taskID, _ := middleware.GetTaskID(c)

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		DueDate     *string `json:"dueDate"`
		IsUrgent    *bool   `json:"isUrgent"`
		IsImportant *bool   `json:"isImportant"`
		IsCompleted *bool   `json:"isCompleted"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Urgent:      req.IsUrgent,
		Important:   req.IsImportant,
		Completed:   req.IsCompleted,
	}
	if req.DueDate != nil {
		dueDate, err := utils.ParseDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.DueDate = &dueDate
	}

	if err := h.taskService.EditTask(c.Request.Context(), principal, taskID, input); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveTask moves a task to another quadrant
func (h *TaskHandler) MoveTask(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	taskID, _ := middleware.GetTaskID(c)

	type MoveTaskRequest struct {
		Quadrant string `json:"quadrant" binding:"required"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	target, _ := models.ParseQuadrant(req.Quadrant)
	if err := h.taskService.MoveQuadrant(c.Request.Context(), principal, taskID, target); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateStatus moves a task through its lifecycle
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	taskID, _ := middleware.GetTaskID(c)

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, _ := models.ParseTaskStatus(req.Status)
	if err := h.taskService.ChangeStatus(c.Request.Context(), principal, taskID, status); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	taskID, _ := middleware.GetTaskID(c)

	if err := h.taskService.DeleteTask(c.Request.Context(), principal, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Dashboard returns the caller's overdue, due-today and do-now tasks
func (h *TaskHandler) Dashboard(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	dashboard, err := h.taskService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardView(dashboard))
}

// ListTasks filters the caller's tasks.
// Query: quadrant, status, fromDate, toDate, completed, page, limit
func (h *TaskHandler) ListTasks(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var input services.TaskFilterInput

	if v := strings.TrimSpace(c.Query("quadrant")); v != "" {
		quadrant, ok := models.ParseQuadrant(v)
		if !ok {
			apierrors.BadRequest(c, "Invalid quadrant")
			return
		}
		input.Quadrant = &quadrant
	}

	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status, ok := models.ParseTaskStatus(v)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	if v := strings.TrimSpace(c.Query("completed")); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed flag")
			return
		}
		input.Completed = &completed
	}

	var err error
	if input.FromDate, err = utils.ParseOptionalDate(c.Query("fromDate")); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.ToDate, err = utils.ParseOptionalDate(c.Query("toDate")); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if utils.PaginationRequested(c) {
		params := utils.GetPaginationParams(c)
		input.Pagination = &params
	}

	tasks, err := h.taskService.FindByFilter(c.Request.Context(), principal, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskViews(tasks))
}

// WeeklyView returns the caller's tasks for the 7 days starting at :date
func (h *TaskHandler) WeeklyView(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	weekStart, err := utils.ParseOptionalDate(c.Param("date"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	week, err := h.taskService.WeeklyView(c.Request.Context(), principal, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWeeklyView(week))
}

// SuggestTasks drafts classified tasks from free text using AI
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	type SuggestTasksRequest struct {
		Text string `json:"text"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), principal, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuggestedTaskViews(suggestions))
}
