package visits

import (
	"context"

	"github.com/cankoe/visit-recorder/internal/models"
)

type Lister struct {
	store Store
}

func NewLister(store Store) *Lister {
	return &Lister{store: store}
}

// ListAll returns every stored visit in store order. The result is never nil.
func (l *Lister) ListAll(ctx context.Context) ([]models.Visit, error) {
	visits, err := l.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if visits == nil {
		visits = []models.Visit{}
	}
	return visits, nil
}
