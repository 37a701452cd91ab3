// Package domain holds the shared vocabulary of the moderation subsystem:
// typed identifiers, roles, and the catalog item shape as observed here.
package domain

import "strconv"

// Typed identifiers keep actor/item/record IDs from being swapped at call
// sites. They mirror the bigserial keys of the backing stores.
type (
	ActorID  int64
	ItemID   int64
	ActionID int64
	AuditID  int64
)

// Valid reports whether the identifier is a positive, assignable key.
func (id ActorID) Valid() bool  { return id > 0 }
func (id ItemID) Valid() bool   { return id > 0 }
func (id ActionID) Valid() bool { return id > 0 }
func (id AuditID) Valid() bool  { return id > 0 }

func (id ActorID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id ItemID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id ActionID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id AuditID) String() string  { return strconv.FormatInt(int64(id), 10) }

// Roles as resolved by the user service. Moderation write operations require
// RoleModerator or RoleAdmin.
const (
	RoleUser      = "USER"
	RoleSeller    = "SELLER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)
