package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablebell/restaurant-api/internal/domain"
)

func TestGate_Evaluate(t *testing.T) {
	gate := NewGate()
	client := &domain.User{ID: 1, Role: domain.RoleClient}
	delivery := &domain.User{ID: 2, Role: domain.RoleDelivery}
	owner := &domain.User{ID: 3, Role: domain.RoleOwner}

	tests := []struct {
		name     string
		identity *domain.User
		req      Requirement
		want     Decision
	}{
		{"public anonymous", nil, Public(), Allowed},
		{"public client", client, Public(), Allowed},
		{"any anonymous", nil, AnyRole(), Denied},
		{"any client", client, AnyRole(), Allowed},
		{"any delivery", delivery, AnyRole(), Allowed},
		{"any owner", owner, AnyRole(), Allowed},
		{"owner anonymous", nil, Roles(domain.RoleOwner), Denied},
		{"owner client", client, Roles(domain.RoleOwner), Denied},
		{"owner delivery", delivery, Roles(domain.RoleOwner), Denied},
		{"owner owner", owner, Roles(domain.RoleOwner), Allowed},
		{"set delivery", delivery, Roles(domain.RoleOwner, domain.RoleDelivery), Allowed},
		{"empty set", owner, Roles(), Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Evaluate(tt.identity, tt.req))
		})
	}
}

func TestRequirement_String(t *testing.T) {
	assert.Equal(t, "public", Public().String())
	assert.Equal(t, "any", AnyRole().String())
	assert.Equal(t, "roles:Owner,Client", Roles(domain.RoleOwner, domain.RoleClient).String())
}
