package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"infinite-experiment/engagesync/internal/models/dtos"
)

const (
	defaultSyncLogLimit = 50
	maxSyncLogLimit     = 500
)

// SyncLogReader serves the sync log listing with plain SQL
type SyncLogReader struct {
	db *sqlx.DB
}

func NewSyncLogReader(db *sqlx.DB) *SyncLogReader {
	return &SyncLogReader{db: db}
}

// List returns the newest sync log rows matching filter
func (r *SyncLogReader) List(ctx context.Context, filter dtos.SyncLogFilter) ([]dtos.SyncLogEntry, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.EntityType != "" {
		conds = append(conds, "source_entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.SourceRecordID != "" {
		conds = append(conds, "source_record_id = ?")
		args = append(args, filter.SourceRecordID)
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSyncLogLimit
	}
	if limit > maxSyncLogLimit {
		limit = maxSyncLogLimit
	}

	query := `SELECT id, status, response, source_record_id, source_entity_type, created_at FROM sync_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	entries := []dtos.SyncLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}

	return entries, nil
}
