package roles

// Role is the permission level carried in the token.
type Role string

const (
	User      Role = "user"
	Moderator Role = "moderator"
	Admin     Role = "admin"
)

type HierarchyLevel int

const (
	UserLevel HierarchyLevel = iota + 1
	ModeratorLevel
	AdminLevel
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Moderator:
		return ModeratorLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether r is at least requiredRole.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Moderator, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
