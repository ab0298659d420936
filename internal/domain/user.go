package domain

import "time"

// Role is the account type a user registered with.
type Role string

const (
	RoleClient   Role = "Client"
	RoleDelivery Role = "Delivery"
	RoleOwner    Role = "Owner"
)

// Roles lists every known role in declaration order.
var Roles = []Role{RoleClient, RoleDelivery, RoleOwner}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleDelivery, RoleOwner:
		return true
	}
	return false
}

// User is an account. Password always holds a bcrypt hash once persisted.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmailVerification tracks the confirmation code sent to a user's email.
type EmailVerification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Code      string    `json:"-"`
	Verified  bool      `json:"isVerified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
