package api

import (
	"net/http"

	"github.com/cankoe/visit-recorder/internal/visits"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const forwardedForHeader = "X-FORWARDED-FOR"

func captureVisitHandler(recorder *visits.Recorder, sessions SessionProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := sessions.GetOrCreate(c.Writer, c.Request)
		if err != nil {
			log.Error().Err(err).Str("route", "GET /").Msg("Failed to obtain session")
			respondError(c, &ApiError{Code: ErrCodeSessionError, Message: "Failed to obtain session", Err: err})
			return
		}

		info := visits.RequestInfo{
			SessionID:    sessionID,
			CallerIP:     c.RemoteIP(),
			ForwardedFor: firstHeaderValue(c.Request, forwardedForHeader),
		}
		visit, err := recorder.Capture(c.Request.Context(), info)
		if err != nil {
			log.Error().Err(err).Str("route", "GET /").Str("session_id", sessionID).Msg("Failed to store visit")
			respondError(c, &ApiError{Code: ErrCodeDatabaseError, Message: "Failed to store visit", Err: err})
			return
		}

		log.Debug().Str("route", "GET /").Str("session_id", sessionID).Time("access_time", visit.AccessTime).Msg("Visit captured")
		c.JSON(http.StatusOK, visit)
	}
}

func listVisitsHandler(lister *visits.Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := lister.ListAll(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("route", "GET /all").Msg("Failed to fetch visits from database")
			respondError(c, &ApiError{Code: ErrCodeDatabaseError, Message: "Failed to fetch visits", Err: err})
			return
		}

		log.Debug().Str("route", "GET /all").Int("count", len(all)).Msg("Visits retrieved successfully")
		c.JSON(http.StatusOK, all)
	}
}

// firstHeaderValue returns the first raw value of the header, or nil when the
// header is absent. Comma-separated lists are not split.
func firstHeaderValue(r *http.Request, name string) *string {
	values := r.Header.Values(name)
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func respondError(c *gin.Context, err error) {
	statusCode, apiErr := mapErrorToStatusCode(err)
	c.JSON(statusCode, gin.H{"error": apiErr})
}
