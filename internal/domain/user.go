package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleHerder   Role = "HERDER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
