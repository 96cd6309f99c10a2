package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/pkg/apperror"
)

// GetUser retrieves the authenticated user placed in the context by the auth
// middleware.
func GetUser(c *gin.Context) (*model.User, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	user, ok := value.(*model.User)
	if !ok || user == nil {
		return nil, apperror.ErrUnauthorized
	}

	return user, nil
}

// GetLang returns the request language, defaulting to "en".
func GetLang(c *gin.Context) string {
	lang := c.GetHeader("Accept-Language")
	if lang == "" {
		lang = "en"
	}
	return lang
}

// Error writes a standardized error response.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// OK writes a 200 response with a data envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with a data envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}
