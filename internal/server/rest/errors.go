package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// respondError maps service errors onto status codes. Internal detail is
// logged and never sent to the client.
func (h *Handler) respondError(c *gin.Context, err error, notFound string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResponse{Message: ve.Message, Field: ve.Field})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: notFound})
	default:
		h.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: "malformed request body", Field: "body"})
}
