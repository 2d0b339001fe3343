package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// callerHeader carries the verified identity placed by the auth middleware in
// front of this service. The subsystem trusts it as-is.
const callerHeader = "X-User-ID"

// callerID extracts the verified caller identity or aborts with 401.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(callerHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return "", false
	}
	return id, true
}
