package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCEO      Role = "CEO"
	RoleEmployee Role = "EMPLOYEE"
)

// Session records the current actor. It is persisted under its own storage
// key, independently of the envelope, and is never versioned: a missing value
// simply means logged out.
type Session struct {
	Role       Role      `json:"role"`
	EmployeeID string    `json:"employeeId,omitempty"`
	EnteredAt  time.Time `json:"enteredAt"`
}

// NewCEOSession starts a CEO session.
func NewCEOSession(now time.Time) Session {
	return Session{Role: RoleCEO, EnteredAt: now.UTC()}
}

// NewEmployeeSession starts a session for one roster entry.
func NewEmployeeSession(employeeID string, now time.Time) (Session, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Session{}, ErrInvalidID
	}
	return Session{Role: RoleEmployee, EmployeeID: employeeID, EnteredAt: now.UTC()}, nil
}

// Validate checks the role/employee pairing.
func (s Session) Validate() error {
	switch s.Role {
	case RoleCEO:
		return nil
	case RoleEmployee:
		if strings.TrimSpace(s.EmployeeID) == "" {
			return ErrInvalidID
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

// IsCEO reports whether the session acts with CEO rights.
func (s Session) IsCEO() bool {
	return s.Role == RoleCEO
}
