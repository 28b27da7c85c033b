package visits

import (
	"context"

	"github.com/cankoe/visit-recorder/internal/models"
)

// Store persists visits keyed by AccessTime. Inserting a visit whose
// AccessTime is already stored replaces the earlier record.
type Store interface {
	Insert(ctx context.Context, v models.Visit) error
	ReadAll(ctx context.Context) ([]models.Visit, error)
}
