package domain

// SessionState is the lifecycle state of the process-wide session.
type SessionState int

const (
	// StateLoading means hydration has not settled yet. Role-gated decisions
	// must wait for it.
	StateLoading SessionState = iota
	StateAnonymous
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a read-only snapshot of the session store.
// Credential and Identity are only meaningful when State is StateAuthenticated.
type Session struct {
	State      SessionState
	Credential string
	Identity   Identity
}

// Authenticated reports whether the snapshot carries an identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}

// IsAdmin reports whether the snapshot belongs to an ADMIN identity.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Identity.Role == RoleAdmin
}

// IsCustomer reports whether the snapshot belongs to a CUSTOMER identity.
func (s Session) IsCustomer() bool {
	return s.Authenticated() && s.Identity.Role == RoleCustomer
}
