package auth

import (
	"errors"
	"slices"

	"github.com/tablebell/restaurant-api/internal/domain"
)

// ErrForbidden is the transport-level error returned when the gate denies.
var ErrForbidden = errors.New("Forbidden resource")

type requirementKind int

const (
	kindPublic requirementKind = iota
	kindAnyRole
	kindRoles
)

// Requirement describes who may invoke an operation.
type Requirement struct {
	kind  requirementKind
	roles []domain.Role
}

// Public operations need no identity.
func Public() Requirement { return Requirement{kind: kindPublic} }

// AnyRole operations need an authenticated caller of any role.
func AnyRole() Requirement { return Requirement{kind: kindAnyRole} }

// Roles operations need an authenticated caller whose role is listed.
func Roles(roles ...domain.Role) Requirement {
	return Requirement{kind: kindRoles, roles: slices.Clone(roles)}
}

func (r Requirement) String() string {
	switch r.kind {
	case kindPublic:
		return "public"
	case kindAnyRole:
		return "any"
	}
	s := "roles:"
	for i, role := range r.roles {
		if i > 0 {
			s += ","
		}
		s += string(role)
	}
	return s
}

// Decision is the gate outcome.
type Decision bool

const (
	Denied  Decision = false
	Allowed Decision = true
)

func (d Decision) String() string {
	if d {
		return "allowed"
	}
	return "denied"
}

// Gate evaluates requirements against the request identity.
type Gate struct{}

// NewGate creates a gate.
func NewGate() *Gate { return &Gate{} }

// Evaluate is a pure function of its arguments.
func (*Gate) Evaluate(identity *domain.User, req Requirement) Decision {
	if req.kind == kindPublic {
		return Allowed
	}
	if identity == nil {
		return Denied
	}
	if req.kind == kindAnyRole {
		return Allowed
	}
	return Decision(slices.Contains(req.roles, identity.Role))
}
