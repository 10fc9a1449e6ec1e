package domain

import "time"

// UserStatus represents the lifecycle state of a dashboard account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ativo"
	UserStatusInactive UserStatus = "inativo"
)

// Toggled returns the opposite status.
func (s UserStatus) Toggled() UserStatus {
	if s == UserStatusActive {
		return UserStatusInactive
	}
	return UserStatusActive
}

// StatusFromBool maps the active switch onto a status.
func StatusFromBool(active bool) UserStatus {
	if active {
		return UserStatusActive
	}
	return UserStatusInactive
}

// User is a dashboard account as listed by the backend.
type User struct {
	ID        int64
	Username  string
	Email     string
	Phone     string
	Role      Role
	Status    UserStatus
	CreatedAt *time.Time
}

// Active reports whether the account switch is on.
func (u User) Active() bool {
	return u.Status == UserStatusActive
}

// Known reports whether s is one of the two account states.
func (s UserStatus) Known() bool {
	return s == UserStatusActive || s == UserStatusInactive
}
