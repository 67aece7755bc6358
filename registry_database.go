package roletree

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// DatabaseRegistry is a Postgres-backed Registry. Membership lives in
// the role_memberships table and every change is appended to the
// role_events table.
//
// All database operations use dbkit's chainable error wrapping so
// failures carry the operation name and preserve the original error
// types for classification (dbkit.IsDuplicate, dbkit.IsNotFound).
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	reg := roletree.NewDatabaseRegistry(db)
//	if _, err := db.Migrate(ctx, reg.Migrations()); err != nil {
//	    log.Fatal(err)
//	}
//	svc := roletree.New(reg)
type DatabaseRegistry struct {
	db dbkit.IDB
}

// NewDatabaseRegistry creates a registry on an existing dbkit
// connection.
func NewDatabaseRegistry(db dbkit.IDB) *DatabaseRegistry {
	return &DatabaseRegistry{db: db}
}

// HasHolder implements Registry.
func (r *DatabaseRegistry) HasHolder(ctx context.Context, role Role, principal Principal) (bool, error) {
	return dbkit.Exists[RoleMembership](ctx, r.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("role = ? AND principal = ?", role.String(), string(principal))
	})
}

// AddHolder implements Registry.
func (r *DatabaseRegistry) AddHolder(ctx context.Context, role Role, principal Principal) error {
	membership := &RoleMembership{
		Role:      role.String(),
		Principal: string(principal),
	}
	result, err := r.db.NewInsert().
		Model(membership).
		On("CONFLICT (role, principal) DO NOTHING").
		Exec(ctx)
	return dbkit.WithErr(result, err, "AddHolder").Err()
}

// RemoveHolder implements Registry.
func (r *DatabaseRegistry) RemoveHolder(ctx context.Context, role Role, principal Principal) error {
	result, err := r.db.NewDelete().
		Table("role_memberships").
		Where("role = ? AND principal = ?", role.String(), string(principal)).
		Exec(ctx)
	return dbkit.WithErr(result, err, "RemoveHolder").Err()
}

// RecordEvent implements Registry.
func (r *DatabaseRegistry) RecordEvent(ctx context.Context, event *Event) error {
	_, err := r.db.NewInsert().Model(event.ToModel()).Exec(ctx)
	return dbkit.WithErr1(err, "RecordEvent").Err()
}

// Events implements EventLister: entries are returned newest first.
func (r *DatabaseRegistry) Events(ctx context.Context, filter EventFilter) ([]Event, error) {
	var models []RoleEvent
	q := r.db.NewSelect().Model(&models)
	if filter.Actor != Nobody {
		q = q.Where("actor = ?", string(filter.Actor))
	}
	if filter.Principal != Nobody {
		q = q.Where("principal = ?", string(filter.Principal))
	}
	if filter.roleIsSet {
		q = q.Where("role = ?", filter.role.String())
	}
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultEventLimit
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	q = q.Order("timestamp DESC")

	if err := dbkit.WithErr1(q.Scan(ctx), "Events").Err(); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(models))
	for i := range models {
		e, err := models[i].ToEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// CountHolders returns the number of persisted holders of a role.
func (r *DatabaseRegistry) CountHolders(ctx context.Context, role Role) (int, error) {
	return dbkit.Count[RoleMembership](ctx, r.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("role = ?", role.String())
	})
}

// Holders returns all persisted holders of a role.
func (r *DatabaseRegistry) Holders(ctx context.Context, role Role) ([]Principal, error) {
	var memberships []RoleMembership
	err := dbkit.WithErr1(r.db.NewSelect().
		Model(&memberships).
		Where("role = ?", role.String()).
		Order("created_at ASC").
		Scan(ctx), "Holders").Err()
	if err != nil {
		return nil, err
	}
	holders := make([]Principal, 0, len(memberships))
	for _, m := range memberships {
		holders = append(holders, Principal(m.Principal))
	}
	return holders, nil
}

// Transaction executes fn within a database transaction with automatic
// commit/rollback. Useful for seeding memberships alongside
// application tables.
func (r *DatabaseRegistry) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := r.db.(*dbkit.Tx); ok {
		return tx.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}
	if db, ok := r.db.(*dbkit.DBKit); ok {
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}
	return NewError(ErrRegistry, "transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}
