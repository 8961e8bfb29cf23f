package domain

import "time"

type ID string

// User is a registered account. PasswordHash and Token never leave the
// service boundary; use Summary for anything shown to other users.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Language     string
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Summary struct {
	ID        ID
	Username  string
	Email     string
	Language  string
	CreatedAt time.Time
}

func (u User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
}
