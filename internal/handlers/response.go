package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// statusFor maps a typed domain error to its HTTP status. Untyped errors
// surface as 500.
func statusFor(err error) int {
	switch vserr.KindOf(err) {
	case vserr.KindNotFound:
		return http.StatusNotFound
	case vserr.KindDuplicateKey, vserr.KindDuplicateItemCode,
		vserr.KindAlreadyArchived, vserr.KindNotArchived,
		vserr.KindConcurrentModification:
		return http.StatusConflict
	case vserr.KindInvalidAggregate, vserr.KindInvalidQuery, vserr.KindCapacityExceeded:
		return http.StatusBadRequest
	case vserr.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if kind := vserr.KindOf(err); kind != "" {
		body["code"] = string(kind)
	}
	if e, ok := err.(*vserr.Error); ok && len(e.Violations) > 0 {
		body["details"] = e.Violations
	}
	if status == http.StatusInternalServerError {
		body["error"] = "internal server error"
	}
	c.JSON(status, body)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
}
