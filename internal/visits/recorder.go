package visits

import (
	"context"
	"errors"
	"time"

	"github.com/cankoe/visit-recorder/internal/models"

	"github.com/rs/zerolog/log"
)

// RequestInfo is the request metadata a visit is built from. Values are
// recorded verbatim.
type RequestInfo struct {
	SessionID string
	CallerIP  string
	// ForwardedFor is the first raw X-Forwarded-For value, nil when the header
	// was not sent.
	ForwardedFor *string
}

type Recorder struct {
	store Store
	host  HostResolver
	now   func() time.Time
}

func NewRecorder(store Store, host HostResolver) *Recorder {
	return &Recorder{
		store: store,
		host:  host,
		now:   time.Now,
	}
}

// Capture builds a visit from info and persists it.
//
// If the host cannot be resolved the visit is returned without a host and is
// not persisted; no error is reported. Store errors are returned as-is.
func (r *Recorder) Capture(ctx context.Context, info RequestInfo) (models.Visit, error) {
	visit, err := r.build(ctx, info)

	var hostErr *HostResolutionError
	if errors.As(err, &hostErr) {
		log.Warn().Err(hostErr).Str("session_id", visit.SessionID).Msg("Dropping visit, host unresolved")
		return visit, nil
	}

	if err := r.store.Insert(ctx, visit); err != nil {
		return visit, err
	}
	return visit, nil
}

func (r *Recorder) build(ctx context.Context, info RequestInfo) (models.Visit, error) {
	visit := models.Visit{
		SessionID:     info.SessionID,
		CallerIP:      info.CallerIP,
		OriginatingIP: info.ForwardedFor,
		// Millisecond precision survives a round trip through every store.
		AccessTime: r.now().UTC().Truncate(time.Millisecond),
	}

	host, err := r.host.ResolveHost(ctx)
	if err != nil {
		var hostErr *HostResolutionError
		if !errors.As(err, &hostErr) {
			err = &HostResolutionError{Err: err}
		}
		return visit, err
	}
	visit.Host = host
	return visit, nil
}
