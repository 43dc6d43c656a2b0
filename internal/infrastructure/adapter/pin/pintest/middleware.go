package pintest

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// recoverAsServerError turns a panicking Handler into the error body the gateway
// sends for an internal failure, so tests can script outages by panicking
func recoverAsServerError(t testing.TB) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				t.Logf("pintest: handler for %s %s panicked: %v", c.Request.Method, c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":             "server_error",
					"error_description": "An unexpected error occurred.",
				})
			}
		}()

		c.Next()
	}
}

// logRequests writes one line per request to the test log
func logRequests(t testing.TB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		t.Logf("pintest: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
