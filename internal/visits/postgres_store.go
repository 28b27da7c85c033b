package visits

import (
	"context"
	"fmt"

	"github.com/cankoe/visit-recorder/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresStore struct {
	db querier
}

func NewPostgresStore(db querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, v models.Visit) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO visits (access_time, host, session_id, caller_ip, originating_ip)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (access_time) DO UPDATE SET
			host = EXCLUDED.host,
			session_id = EXCLUDED.session_id,
			caller_ip = EXCLUDED.caller_ip,
			originating_ip = EXCLUDED.originating_ip`,
		v.AccessTime,
		v.Host,
		v.SessionID,
		v.CallerIP,
		v.OriginatingIP,
	)
	if err != nil {
		return fmt.Errorf("failed to store visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.Visit, error) {
	rows, err := s.db.Query(ctx, `
		SELECT access_time, host, session_id, caller_ip, originating_ip
		FROM visits`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visits: %w", err)
	}
	defer rows.Close()

	visits := []models.Visit{}
	for rows.Next() {
		var v models.Visit
		if err := rows.Scan(
			&v.AccessTime,
			&v.Host,
			&v.SessionID,
			&v.CallerIP,
			&v.OriginatingIP,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		v.AccessTime = v.AccessTime.UTC()
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read visits: %w", err)
	}
	return visits, nil
}
