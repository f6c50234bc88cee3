package handlers

import (
	"net/http"

	"homeserve/services/scheduling"

	"github.com/gin-gonic/gin"
)

// respondError maps a classified scheduling error to its HTTP status. Anything
// unclassified is treated as a store failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch scheduling.KindOf(err) {
	case scheduling.KindValidation:
		status = http.StatusBadRequest
	case scheduling.KindNotFound:
		status = http.StatusNotFound
	case scheduling.KindCapacity:
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
