package models

import (
	"database/sql"
	"time"
)

// User is the persisted form of a user row.
// Placeholder users created from an email address have an empty auth provider.
type User struct {
	UserID          string         `db:"user_id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	Nickname        sql.NullString `db:"nickname"`
	ImageURL        sql.NullString `db:"image_url"`
	AuthProvider    string         `db:"auth_provider"`
	ProviderUserID  sql.NullString `db:"provider_user_id"`
	EmailVerifiedAt *time.Time     `db:"email_verified_at"`
	AuditFields
}
