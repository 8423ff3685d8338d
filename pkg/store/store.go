package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/hpckit/balsamctl/pkg/store/models"
)

// Store gives read-only access to the workflow manager's job records.
type Store struct {
	db *bun.DB
}

// Open connects to the workflow store database and verifies the connection.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN())))

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to workflow store database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ListJobs returns all jobs, optionally filtered to applications whose name
// contains appFilter.
func (s *Store) ListJobs(ctx context.Context, appFilter string) ([]models.Job, error) {
	var jobs []models.Job
	q := s.db.NewSelect().Model(&jobs).Order("last_update DESC")
	if appFilter != "" {
		q = q.Where("application LIKE ?", "%"+appFilter+"%")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// NotFinished returns jobs that have not reached their terminal success
// state, newest first.
func (s *Store) NotFinished(ctx context.Context, appFilter string) ([]models.Job, error) {
	jobs, err := s.ListJobs(ctx, appFilter)
	if err != nil {
		return nil, err
	}
	out := jobs[:0]
	for _, j := range jobs {
		if !j.Finished() {
			out = append(out, j)
		}
	}
	return out, nil
}

// StateCount is one row of a per-state summary.
type StateCount struct {
	State string
	Count int
}

// SummarizeStates counts jobs per state. Output is sorted by state name so
// repeated calls render identically.
func SummarizeStates(jobs []models.Job) []StateCount {
	byState := make(map[string]int)
	for _, j := range jobs {
		byState[j.State]++
	}

	states := make([]string, 0, len(byState))
	for s := range byState {
		states = append(states, s)
	}
	sort.Strings(states)

	counts := make([]StateCount, 0, len(states))
	for _, s := range states {
		counts = append(counts, StateCount{State: s, Count: byState[s]})
	}
	return counts
}
