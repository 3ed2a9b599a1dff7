package enums

// SystemRole grants platform-wide privileges beyond a regular shopper.
type SystemRole string

const (
	SystemRoleCustomer SystemRole = "customer"
	SystemRoleAdmin    SystemRole = "admin"
)

func (r SystemRole) String() string {
	return string(r)
}

// IsAdmin reports whether the role can manage orders and the catalog.
func (r SystemRole) IsAdmin() bool {
	return r == SystemRoleAdmin
}

// IsValid reports whether the value is a known SystemRole.
func (r SystemRole) IsValid() bool {
	return r == SystemRoleCustomer || r == SystemRoleAdmin
}

// SystemRoleFrom resolves the optional role column stored on users.
func SystemRoleFrom(value *string) SystemRole {
	if value != nil && SystemRole(*value) == SystemRoleAdmin {
		return SystemRoleAdmin
	}
	return SystemRoleCustomer
}
