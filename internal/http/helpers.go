package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Helpers ---

// parseChapterParam parses the :chapter path parameter, responding with 400
// on failure.
func parseChapterParam(c *gin.Context) (int, bool) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 1 {
		respondBadRequest(c, "invalid chapter number")
		return 0, false
	}
	return chapter, true
}

// currentUserID extracts the user the request acts for. Authentication
// itself is an external collaborator; the shell forwards its signed-in
// user via header.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		respondBadRequest(c, "missing X-User-ID header")
		return "", false
	}
	return userID, true
}
