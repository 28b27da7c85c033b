package api

import (
	"net/http"

	"github.com/cankoe/visit-recorder/internal/config"
	"github.com/cankoe/visit-recorder/internal/visits"

	"github.com/gin-gonic/gin"
)

// SessionProvider returns the caller's session id, creating a session when
// the request has none.
type SessionProvider interface {
	GetOrCreate(w http.ResponseWriter, r *http.Request) (string, error)
}

type Dependencies struct {
	Recorder *visits.Recorder
	Lister   *visits.Lister
	Sessions SessionProvider
	Build    config.BuildInfo
}

// RegisterRoutes registers the visit and system routes.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	r.GET("/", captureVisitHandler(deps.Recorder, deps.Sessions))
	r.GET("/all", listVisitsHandler(deps.Lister))
	r.GET("/health", healthHandler())
	r.GET("/version", versionHandler(deps.Build))
}
