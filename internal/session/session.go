package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store tracks live session ids.
type Store interface {
	// Touch extends a live session and reports whether it existed.
	Touch(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Create(ctx context.Context, id string, ttl time.Duration) error
}

// Manager hands out session ids through a cookie, creating a session when the
// request carries none or an expired one.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	newID      func() string
}

func NewManager(store Store, cookieName string, ttl time.Duration) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		newID:      func() string { return uuid.NewString() },
	}
}

// GetOrCreate returns the caller's session id. Repeated calls are not
// guaranteed to return the same id.
func (m *Manager) GetOrCreate(w http.ResponseWriter, r *http.Request) (string, error) {
	ctx := r.Context()

	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		alive, err := m.store.Touch(ctx, c.Value, m.ttl)
		if err != nil {
			return "", err
		}
		if alive {
			return c.Value, nil
		}
		log.Debug().Str("session_id", c.Value).Msg("Session expired or unknown, creating a new one")
	}

	id := m.newID()
	if err := m.store.Create(ctx, id, m.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debug().Str("session_id", id).Msg("Created session")
	return id, nil
}
