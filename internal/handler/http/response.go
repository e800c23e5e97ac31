// Package http holds the REST handlers for the durable room lifecycle.
package http

import "github.com/gin-gonic/gin"

// ErrorResponse writes a JSON error body.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// SuccessResponse writes a JSON success body.
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
