package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
)

func TestRoleSetMapper_Map(t *testing.T) {
	mapper := RoleSetMapper{AdminRole: "admin"}

	tests := []struct {
		name     string
		roles    []string
		expected domainauth.Role
	}{
		{name: "admin membership", roles: []string{"user", "admin"}, expected: domainauth.RoleAdmin},
		{name: "no admin membership", roles: []string{"user", "editor"}, expected: domainauth.RoleUser},
		{name: "empty role set", roles: nil, expected: domainauth.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper.Map(tt.roles))
		})
	}
}

func TestRoleSetMapper_EmptyAdminRoleNeverPromotes(t *testing.T) {
	mapper := RoleSetMapper{}
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{"", "admin"}))
}
