package models

// Role is the closed set of roles a caller can hold. Stored role values
// and JWT role claims are free-form strings upstream; ParseRole is the
// single place that maps them onto the enum.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

const (
	RoleNameAdmin = "Admin"
	RoleNameUser  = "User"
)

// ParseRole maps a stored or claimed role string to its Role. The match
// is exact and case-sensitive: stored values are capitalized ("Admin",
// "User") and anything else is RoleUnknown.
func ParseRole(s string) Role {
	switch s {
	case RoleNameAdmin:
		return RoleAdmin
	case RoleNameUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return RoleNameAdmin
	case RoleUser:
		return RoleNameUser
	default:
		return "Unknown"
	}
}
