package models

import "time"

// User is an account record. PasswordHash is never serialized and is only
// populated by credential lookups.
type User struct {
	ID             string     `json:"id"`
	Nama           string     `json:"nama"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	Bio            string     `json:"bio"`
	ProfilePicture *string    `json:"profilePicture"`
	IsActive       bool       `json:"isActive"`
	TanggalDaftar  time.Time  `json:"tanggalDaftar"`
	TerakhirLogin  *time.Time `json:"terakhirLogin"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
