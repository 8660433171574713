package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/domain/task"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP status codes: not-found to 404,
// malformed input to 400, forbidden transitions to 422, the rest to 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrRemarkNotFound),
		errors.Is(err, billing.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrEmptyRemark),
		errors.Is(err, task.ErrUnknownStatus),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, billing.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, task.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, errorResponse{Error: msg})
}
