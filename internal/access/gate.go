package access

import (
	"sync"

	"github.com/riadice/riadice-backend/internal/app/model"
)

type State string

const (
	StateChecking              State = "checking"
	StateDeniedUnauthenticated State = "denied-unauthenticated"
	StateDeniedUnauthorized    State = "denied-unauthorized"
	StateGranted               State = "granted"
)

// Gate combines identity and role resolution into one access decision.
// Resolutions may complete in any order and from different goroutines;
// the gate stays in StateChecking until every resolution it needs has completed.
type Gate struct {
	mu            sync.Mutex
	identityKnown bool
	identity      *Session
	roleKnown     bool
	role          model.Role
}

func NewGate() *Gate {
	return &Gate{}
}

// ObserveIdentity records the identity resolution. nil means nobody is signed in.
func (g *Gate) ObserveIdentity(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.identityKnown = true
	if s != nil {
		cp := *s
		g.identity = &cp
	}
}

// ObserveRole records the role resolution. Unknown roles count as none.
func (g *Gate) ObserveRole(role model.Role) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !role.Valid() {
		role = model.RoleNone
	}
	g.roleKnown = true
	g.role = role
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case !g.identityKnown:
		return StateChecking
	case g.identity == nil:
		return StateDeniedUnauthenticated
	case !g.roleKnown:
		return StateChecking
	case g.role == model.RoleAdmin || g.role == model.RoleStaff:
		return StateGranted
	default:
		return StateDeniedUnauthorized
	}
}

// Session returns the identity with its resolved role once the gate is granted.
func (g *Gate) Session() (Session, bool) {
	if g.State() != StateGranted {
		return Session{}, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := *g.identity
	s.Role = g.role
	return s, true
}
