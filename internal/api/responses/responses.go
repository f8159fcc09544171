// internal/api/responses/responses.go
package responses

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// APIResponse defines the standard envelope for API responses.
type APIResponse struct {
	Status  string      `json:"status"` // "success" or "error"
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// InitLogger initializes the structured logger for API responses and returns it
// so the rest of the service can share it.
func InitLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return logger
	}
	logger = l
	return logger
}

// Success sends a successful response with the provided data and message.
func Success(c *gin.Context, data interface{}, message string) {
	resp := APIResponse{Status: "success", Data: data, Message: message}
	c.JSON(http.StatusOK, resp)
	logger.Info("API success", zap.String("path", c.Request.URL.Path), zap.Int("status", http.StatusOK))
}

// File sends a binary attachment. Non-ASCII file names are encoded per RFC 2231.
func File(c *gin.Context, contentType, fileName string, data []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, data)
	logger.Info("API file", zap.String("path", c.Request.URL.Path), zap.String("file", fileName), zap.Int("bytes", len(data)))
}

// Error sends an error response with the provided code, message, and optional errors.
func Error(c *gin.Context, code int, message string, errs ...string) {
	resp := APIResponse{Status: "error", Message: message, Errors: errs}
	c.JSON(code, resp)
	logger.Error("API error", zap.String("path", c.Request.URL.Path), zap.Int("status", code), zap.Strings("errors", errs))
}
