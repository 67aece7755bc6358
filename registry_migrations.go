package roletree

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required by the registry.
// Use db.Migrate(ctx, reg.Migrations()) to run them.
func (r *DatabaseRegistry) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "roletree-001",
			Description: "Create role_memberships table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_memberships (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    role TEXT NOT NULL,
                    principal TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (role, principal)
                )`,
		},
		{
			ID:          "roletree-002",
			Description: "Create role_events table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_events (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    action TEXT NOT NULL,
                    role TEXT NOT NULL,
                    principal TEXT,
                    actor TEXT,
                    previous_admin TEXT,
                    new_admin TEXT,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT
                )`,
		},
		{
			ID:          "roletree-003",
			Description: "Index role_events for common queries",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_role_events_role ON role_events (role, timestamp DESC);
                CREATE INDEX IF NOT EXISTS idx_role_events_principal ON role_events (principal, timestamp DESC);
                CREATE INDEX IF NOT EXISTS idx_role_memberships_principal ON role_memberships (principal)`,
		},
	}
}
