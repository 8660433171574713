package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enserhq/enserv/internal/domain/task"
)

// TaskHandler exposes the task workflow over REST.
type TaskHandler struct {
	svc    *task.Service
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(svc *task.Service, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{svc: svc, logger: logger}
}

// EnrichRoutes registers the task routes
func (h *TaskHandler) EnrichRoutes(r *gin.Engine) {
	tasks := r.Group("/tasks")
	tasks.POST("", h.create)
	tasks.GET("", h.list)
	tasks.GET("/:taskID", h.get)
	tasks.GET("/:taskID/status", h.status)
	tasks.DELETE("/:taskID", h.delete)
	tasks.POST("/:taskID/remarks", h.appendInternalRemark)
	tasks.POST("/:taskID/customer-remarks", h.appendCustomerRemark)
	tasks.PUT("/:taskID/remarks/latest", h.updateLatestRemark)
}

type createTaskRequest struct {
	DepartmentID   string  `json:"department_id" binding:"required"`
	CustomerID     string  `json:"customer_id" binding:"required"`
	SiteID         string  `json:"site_id"`
	AssignedUserID *string `json:"assigned_user_id"`
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	ActorUserID    *string `json:"actor_user_id"`
	CustomerLabel  string  `json:"customer_label"`
}

func (h *TaskHandler) create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), task.CreateRequest{
		DepartmentID:   req.DepartmentID,
		CustomerID:     req.CustomerID,
		SiteID:         req.SiteID,
		AssignedUserID: req.AssignedUserID,
		Title:          req.Title,
		Description:    req.Description,
		ActorUserID:    req.ActorUserID,
		CustomerLabel:  req.CustomerLabel,
	})
	if err != nil {
		h.logger.Error("creating task", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) list(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("listing tasks", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) status(c *gin.Context) {
	status, err := h.svc.CurrentStatus(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"next":   task.NextStatuses(status),
	})
}

func (h *TaskHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("taskID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type internalRemarkRequest struct {
	Body        string `json:"body" binding:"required"`
	Status      string `json:"status" binding:"required"`
	ActorUserID string `json:"actor_user_id" binding:"required"`
}

func (h *TaskHandler) appendInternalRemark(c *gin.Context) {
	var req internalRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	rm, err := h.svc.AppendInternalRemark(c.Request.Context(), c.Param("taskID"), req.Body, status, req.ActorUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rm)
}

type customerRemarkRequest struct {
	Body          string `json:"body" binding:"required"`
	Status        string `json:"status" binding:"required"`
	CustomerLabel string `json:"customer_label" binding:"required"`
}

func (h *TaskHandler) appendCustomerRemark(c *gin.Context) {
	var req customerRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	rm, err := h.svc.AppendCustomerRemark(c.Request.Context(), c.Param("taskID"), req.Body, status, req.CustomerLabel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rm)
}

type updateRemarkRequest struct {
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

func (h *TaskHandler) updateLatestRemark(c *gin.Context) {
	var req updateRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var status *task.Status
	if req.Status != nil {
		parsed, err := task.ParseStatus(*req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		status = &parsed
	}

	rm, err := h.svc.UpdateLatestRemark(c.Request.Context(), c.Param("taskID"), req.Body, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rm)
}
