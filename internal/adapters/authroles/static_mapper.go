package authroles

import (
	domainauth "github.com/comandero/comandero/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to application roles by simple string
// membership rules. Admin wins over staff when both groups are present.
type StaticRoleMapper struct {
	AdminGroup string
	StaffGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.StaffGroup != "" && g == m.StaffGroup {
			return domainauth.RoleStaff
		}
	}
	return domainauth.RoleViewer
}
