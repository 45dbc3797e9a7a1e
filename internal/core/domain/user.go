package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of actor roles on the platform.
type Role string

const (
	// RoleBroker is the platform operator: assigns influencers to
	// campaigns, approves campaigns and can override statuses.
	RoleBroker Role = "broker"
	// RoleBusiness owns campaigns and reviews submitted content.
	RoleBusiness Role = "business"
	// RoleInfluencer is assigned to campaigns, produces content and
	// receives payment.
	RoleInfluencer Role = "influencer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBroker, RoleBusiness, RoleInfluencer:
		return true
	}
	return false
}

// User is a platform account. Authentication happens upstream; the
// workflow core only needs identity, role and the active flag.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	FirstName string
	LastName  string
	Active    bool
	CreatedAt time.Time
}

// Actor is the authenticated identity performing a workflow operation.
// It is constructed by the inbound adapter from credentials verified
// outside this core.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
