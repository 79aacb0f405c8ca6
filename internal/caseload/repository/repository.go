// Package repository counts leads per handler for the caseload overview.
package repository

import (
	"context"
	"fmt"

	"lawoffice_crm_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StageCounts are the per-handler caseload counters. They are recomputed on
// every request from current table state, never persisted.
type StageCounts struct {
	New              int
	Active           int
	InProcess        int
	ApplicationsSent int
}

func (c *StageCounts) add(o StageCounts) {
	c.New += o.New
	c.Active += o.Active
	c.InProcess += o.InProcess
	c.ApplicationsSent += o.ApplicationsSent
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// countsSQL aggregates one lead table into per-handler stage buckets. Dropped
// and spam rows never count.
func countsSQL(table string) string {
	return fmt.Sprintf(`
	SELECT handler_id,
	       COUNT(*) FILTER (WHERE stage IS NULL OR stage <= %d),
	       COUNT(*) FILTER (WHERE stage >= %d),
	       COUNT(*) FILTER (WHERE stage >= %d AND stage < %d),
	       COUNT(*) FILTER (WHERE stage >= %d)
	FROM %s
	WHERE handler_id IS NOT NULL
	  AND (stage IS NULL OR stage <> %d)
	GROUP BY handler_id`,
		domain.StageNewMax,
		domain.StageActiveMin,
		domain.StageActiveMin, domain.StageApplicationMin,
		domain.StageApplicationMin,
		table,
		domain.StageDroppedSpam)
}

// CountsByHandler aggregates both lead tables into one per-handler counter
// map.
func (r *Repository) CountsByHandler(ctx context.Context) (map[int64]StageCounts, error) {
	out := make(map[int64]StageCounts)
	for _, table := range []string{"leads", "leads_lead"} {
		if err := r.scanCounts(ctx, countsSQL(table), out); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
	}
	return out, nil
}

func (r *Repository) scanCounts(ctx context.Context, sql string, out map[int64]StageCounts) error {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var handlerID int64
		var c StageCounts
		if err := rows.Scan(&handlerID, &c.New, &c.Active, &c.InProcess, &c.ApplicationsSent); err != nil {
			return err
		}
		merged := out[handlerID]
		merged.add(c)
		out[handlerID] = merged
	}
	return rows.Err()
}
