package models

import "strconv"

// AnonymousUserID is the sentinel user id for a principal whose id claim
// is absent or unparseable. User ids assigned by the store start at 1,
// so the sentinel never matches a real owner.
const AnonymousUserID = 0

// Principal is the authenticated caller's identity and role claim for one
// request. RawRole keeps the claim string as received; Role is the parsed
// enum. Both are kept because the owner-update rule compares the raw
// claim (see TaskService.UpdateTask).
type Principal struct {
	UserID  int
	Role    Role
	RawRole string
}

// NewPrincipal builds a Principal from the string-encoded id and role
// claims of a token. An id that does not parse as an integer yields
// AnonymousUserID, which falls through every ownership check.
func NewPrincipal(userIDClaim, roleClaim string) Principal {
	id, err := strconv.Atoi(userIDClaim)
	if err != nil {
		id = AnonymousUserID
	}
	return Principal{UserID: id, Role: ParseRole(roleClaim), RawRole: roleClaim}
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) IsAnonymous() bool { return p.UserID == AnonymousUserID }
