package roletree

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Health performs a comprehensive health check of the registry's
// database connection, including latency and connection pool
// statistics.
func (r *DatabaseRegistry) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := r.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}
	return dbkit.HealthStatus{
		Healthy: r.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy reports whether the registry's database is reachable.
func (r *DatabaseRegistry) IsHealthy(ctx context.Context) bool {
	if db, ok := r.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}
	return r.Ping(ctx) == nil
}

// Ping performs a basic connectivity test against the database.
func (r *DatabaseRegistry) Ping(ctx context.Context) error {
	var result int
	return r.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &result)
}

// PoolStats returns connection pool statistics for monitoring. Returns
// zero values when the underlying instance doesn't expose them.
func (r *DatabaseRegistry) PoolStats() dbkit.PoolStats {
	if db, ok := r.db.(*dbkit.DBKit); ok {
		return dbkit.PoolStatsFromSQL(db.Stats())
	}
	return dbkit.PoolStats{}
}
