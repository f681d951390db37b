package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "parking_staff"
	RoleAdmin Role = "admin"
)

func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
