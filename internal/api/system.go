package api

import (
	"net/http"

	"github.com/cankoe/visit-recorder/internal/config"

	"github.com/gin-gonic/gin"
)

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func versionHandler(build config.BuildInfo) gin.HandlerFunc {
	body := "Version: Build ID - " + orNull(build.BuildID) + "\tCommit ID - " + orNull(build.CommitID)
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

// orNull renders an unset value as the literal "null".
func orNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
