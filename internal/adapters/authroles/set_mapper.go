package authroles

import (
	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
)

// RoleSetMapper derives the application role from the claim-derived role set.
// Any authenticated user is at least RoleUser; membership of the configured
// admin role name promotes to RoleAdmin. Guests never reach the mapper (no
// session means no role set).
type RoleSetMapper struct {
	AdminRole string
}

func (m RoleSetMapper) Map(roles []string) domainauth.Role {
	for _, r := range roles {
		if m.AdminRole != "" && r == m.AdminRole {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
