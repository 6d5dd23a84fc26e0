package model

// Identity is the verified caller attached to a request after the
// access token has been checked. It is threaded through the Echo
// context as an explicit value rather than loose claim lookups so
// handlers deal with one typed shape.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// roleGrants is the single place where role implication lives: it
// maps a role name to the set of role requirements it satisfies.
// The admin entry is deliberately absent – admin is a super-role
// and passes every check (see Allows).
var roleGrants = map[string]map[string]bool{
	RoleUser: {RoleUser: true},
}

// Allows reports whether an identity with role `have` satisfies a
// requirement for role `want`. Admin bypasses all specific checks;
// any other role must carry an explicit grant in roleGrants.
func Allows(have, want string) bool {
	if have == RoleAdmin {
		return true
	}
	return roleGrants[have][want]
}
