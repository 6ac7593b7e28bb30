package domain

import "time"

// User is a profile document keyed by email. Profile carries whatever the
// client sent on upsert (name, address, phone, ...); Role lives inside the
// document and defaults to RoleUser when the field is absent.
type User struct {
	Email     string
	Role      Role
	Profile   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
