package domain

// Group is a named role carrying a set of permission codenames.
type Group struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// CustomerProfile is the optional customer record linked to a user.
// Orders reference its ID; guests have none.
type CustomerProfile struct {
	ID      int64  `json:"id"`
	Name    string `json:"nombre"`
	Phone   string `json:"telefono,omitempty"`
	Address string `json:"direccion,omitempty"`
}

// UserProfile is the authenticated user's full profile as returned by
// the profile endpoint.
type UserProfile struct {
	ID                int64            `json:"id"`
	Username          string           `json:"username"`
	Email             string           `json:"email,omitempty"`
	IsStaff           bool             `json:"is_staff"`
	Groups            []Group          `json:"groups"`
	DirectPermissions []string         `json:"user_permissions"`
	Customer          *CustomerProfile `json:"cliente_profile,omitempty"`
}

// CustomerID returns the linked customer id, or nil for guests.
func (u *UserProfile) CustomerID() *int64 {
	if u == nil || u.Customer == nil {
		return nil
	}
	id := u.Customer.ID
	return &id
}

// HasGroup reports whether the user belongs to the named group.
func (u *UserProfile) HasGroup(name string) bool {
	if u == nil {
		return false
	}
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// PermissionSet is the union of group and direct permissions with O(1)
// membership checks.
type PermissionSet map[string]struct{}

// EffectivePermissions flattens group permissions and direct permissions
// into one set. A nil profile yields an empty set.
func (u *UserProfile) EffectivePermissions() PermissionSet {
	set := make(PermissionSet)
	if u == nil {
		return set
	}
	for _, g := range u.Groups {
		for _, p := range g.Permissions {
			set[p] = struct{}{}
		}
	}
	for _, p := range u.DirectPermissions {
		set[p] = struct{}{}
	}
	return set
}

// Has reports membership of a single permission codename.
func (s PermissionSet) Has(perm string) bool {
	_, ok := s[perm]
	return ok
}

// Requirement expresses which permissions gate an action: any-of or
// all-of a list of codenames.
type Requirement struct {
	perms []string
	all   bool
}

// RequireAny is satisfied when at least one codename is held.
func RequireAny(perms ...string) Requirement {
	return Requirement{perms: perms}
}

// RequireAll is satisfied only when every codename is held.
func RequireAll(perms ...string) Requirement {
	return Requirement{perms: perms, all: true}
}

// SatisfiedBy evaluates the requirement against a permission set.
// An empty requirement is always satisfied.
func (r Requirement) SatisfiedBy(set PermissionSet) bool {
	if len(r.perms) == 0 {
		return true
	}
	for _, p := range r.perms {
		if set.Has(p) {
			if !r.all {
				return true
			}
		} else if r.all {
			return false
		}
	}
	return r.all
}
