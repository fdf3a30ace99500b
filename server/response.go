package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/formkit/errors"
)

// DataResponse wraps successful payloads.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as a JSON error body. AppErrors keep their
// status and code; anything else becomes a 500 without leaking the cause.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondCreated writes a 201 with data. A non-empty location is sent as
// the Location header.
func RespondCreated(c *gin.Context, location string, data any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}
