package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Querier is the subset of *pgxpool.Pool the load repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// slowQueryThreshold marks queries worth a warning in the logs.
const slowQueryThreshold = 500 * time.Millisecond

// rate is cast to float8 so it scans into float64 and serializes as a
// plain JSON number.
const selectLoads = `
SELECT
	reference_number,
	origin,
	destination,
	equipment_type,
	rate::float8 AS rate,
	commodity
FROM loads`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value anywhere, with the
// LIKE wildcards in value taken literally.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(value)) + "%"
}

// PostgresLoadRepository queries the loads table on every call.
type PostgresLoadRepository struct {
	db     Querier
	logger *zerolog.Logger
}

func NewPostgresLoadRepository(db Querier, logger *zerolog.Logger) *PostgresLoadRepository {
	return &PostgresLoadRepository{
		db:     db,
		logger: logger,
	}
}

func buildReferenceQuery(refs []string) (string, []any) {
	normalized := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = model.NormalizeReference(ref); ref != "" {
			normalized = append(normalized, ref)
		}
	}

	sql := selectLoads + `
WHERE reference_number = ANY($1)
ORDER BY reference_number`

	return sql, []any{normalized}
}

func buildLaneQuery(origin, destination, equipment string) (string, []any) {
	conditions := []string{"origin ILIKE $1", "destination ILIKE $2"}
	args := []any{containsPattern(origin), containsPattern(destination)}

	if strings.TrimSpace(equipment) != "" {
		args = append(args, containsPattern(equipment))
		conditions = append(conditions, fmt.Sprintf("equipment_type ILIKE $%d", len(args)))
	}

	sql := selectLoads + `
WHERE ` + strings.Join(conditions, " AND ") + `
ORDER BY reference_number`

	return sql, args
}

func (r *PostgresLoadRepository) FindByReferences(ctx context.Context, refs []string) ([]model.Load, error) {
	sql, args := buildReferenceQuery(refs)
	return r.query(ctx, "find_by_references", sql, args)
}

// FindByLane matches case-insensitive substrings of origin, destination and,
// when given, equipment type.
func (r *PostgresLoadRepository) FindByLane(ctx context.Context, origin, destination, equipment string) ([]model.Load, error) {
	sql, args := buildLaneQuery(origin, destination, equipment)
	return r.query(ctx, "find_by_lane", sql, args)
}

func (r *PostgresLoadRepository) query(ctx context.Context, operation, sql string, args []any) ([]model.Load, error) {
	start := time.Now()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query on table:loads: %w", operation, err)
	}

	loads, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Load])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:loads: %w", err)
	}

	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		r.logger.Warn().
			Str("operation", operation).
			Dur("duration", elapsed).
			Int("rows", len(loads)).
			Msg("slow load query")
	}

	if loads == nil {
		loads = make([]model.Load, 0)
	}

	return loads, nil
}
