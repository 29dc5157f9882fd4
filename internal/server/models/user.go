package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the kind of account; it decides which operations a session may call.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTeacher:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IDPrefix is the first letter of the role; user ids are IDPrefix followed by
// the registration unix time.
func (r Role) IDPrefix() string {
	return string(r)[:1]
}

type User struct {
	ID           string
	Login        string
	PasswordHash []byte
	Role         Role
	FullName     string
	Email        string
	CreatedAt    time.Time
}
