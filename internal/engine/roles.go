package engine

type Role string

const (
	RoleRaja   Role = "Raja"
	RoleMantri Role = "Mantri"
	RoleChor   Role = "Chor"
	RoleSipahi Role = "Sipahi"
)

// AllRoles is the full role set in catalog order. Exactly one of each is
// dealt per round when the table is full.
var AllRoles = [4]Role{RoleRaja, RoleMantri, RoleChor, RoleSipahi}

var rolePoints = map[Role]int{
	RoleRaja:   800,
	RoleMantri: 900,
	RoleChor:   0,
	RoleSipahi: 1000,
}

var roleDescriptions = map[Role]string{
	RoleRaja:   "The King who knows the identity of the Sipahi (Guard).",
	RoleMantri: "The Minister who identifies the Chor to the Sipahi.",
	RoleChor:   "The Thief who must remain hidden to avoid being caught.",
	RoleSipahi: "The Guard who works with the Raja to identify the Chor.",
}

// Points returns the role's fixed point value, 0 for an unknown role.
func (r Role) Points() int { return rolePoints[r] }

func (r Role) Description() string { return roleDescriptions[r] }

func (r Role) Valid() bool {
	_, ok := rolePoints[r]
	return ok
}
