package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

// HandleServiceError maps service sentinels to HTTP status codes.
// Anything unrecognized is an internal error: logged in full, reported
// generically.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, "Authentication failed")
	case errors.Is(err, service.ErrRoomNotFound):
		ErrorResponse(c, http.StatusNotFound, "Room not found or inactive")
	case errors.Is(err, service.ErrNotRoomOwner):
		ErrorResponse(c, http.StatusForbidden, "Only the room owner can perform this action")
	case errors.Is(err, service.ErrValidation):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
