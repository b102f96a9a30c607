package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"table-ops-api/internal/dispatcher"
	"table-ops-api/internal/middleware"
)

// OpsHandler handles operation requests
type OpsHandler struct {
	dispatcher *dispatcher.Dispatcher
}

// NewOpsHandler creates a new operations handler
func NewOpsHandler(d *dispatcher.Dispatcher) *OpsHandler {
	return &OpsHandler{
		dispatcher: d,
	}
}

// HandleOperation accepts the operation JSON, dispatches it and returns
// the action's result. All error translation to status codes happens
// here, at the transport boundary.
func (h *OpsHandler) HandleOperation(c *gin.Context) {
	var req dispatcher.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body",
			Message:   err.Error(),
			RequestID: c.GetString(middleware.RequestIDKey),
		})
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), &req)
	if err != nil {
		status := StatusForError(err)
		c.JSON(status, ErrorResponse{
			Error:     http.StatusText(status),
			Message:   err.Error(),
			RequestID: c.GetString(middleware.RequestIDKey),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
