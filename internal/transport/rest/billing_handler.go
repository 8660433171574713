package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enserhq/enserv/internal/domain/billing"
)

const dateLayout = "2006-01-02"

// BillingHandler exposes billing schedules over REST.
type BillingHandler struct {
	svc    *billing.Service
	logger *slog.Logger
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(svc *billing.Service, logger *slog.Logger) *BillingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillingHandler{svc: svc, logger: logger}
}

// EnrichRoutes registers the billing routes
func (h *BillingHandler) EnrichRoutes(r *gin.Engine) {
	r.PUT("/contract-types/:contractTypeID/schedule", h.regenerate)
	r.GET("/contract-types/:contractTypeID/schedule", h.schedule)
	r.PUT("/billing-entries/:entryID/status", h.setEntryStatus)
}

type regenerateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CycleDays int    `json:"cycle_days"`
}

func (h *BillingHandler) regenerate(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Blank dates are legal: a Free contract regenerates to an empty
	// schedule.
	var start, end time.Time
	var err error
	if req.StartDate != "" {
		if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid start_date, expected YYYY-MM-DD"})
			return
		}
	}
	if req.EndDate != "" {
		if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid end_date, expected YYYY-MM-DD"})
			return
		}
	}

	entries, err := h.svc.Regenerate(c.Request.Context(), c.Param("contractTypeID"), start, end, req.CycleDays)
	if err != nil {
		h.logger.Error("regenerating schedule", "error", err)
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []billing.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *BillingHandler) schedule(c *gin.Context) {
	entries, err := h.svc.Schedule(c.Request.Context(), c.Param("contractTypeID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []billing.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

type entryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BillingHandler) setEntryStatus(c *gin.Context) {
	var req entryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	status, err := billing.ParsePaymentStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.svc.SetEntryStatus(c.Request.Context(), c.Param("entryID"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
