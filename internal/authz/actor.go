package authz

// Actor is the authenticated user on whose behalf an operation runs. It is
// threaded explicitly through use cases and handlers instead of being read
// from ambient session state.
type Actor struct {
	ID       uint
	Username string
	FullName string
	Role     Role
}

func (a Actor) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}

func (a Actor) Can(c Capability) bool {
	return a.Role.Can(c)
}
