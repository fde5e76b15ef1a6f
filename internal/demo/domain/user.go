package domain

import "time"

type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // argon2 encoded
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
