package domain

// Role is the capability an actor holds for a command. Resolved by the
// auth layer; the core never reads ambient session state.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
)

// Actor identifies the caller of a core command.
type Actor struct {
	ID   uint
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
