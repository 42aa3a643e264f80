package users

import "time"

// User is a registered account. Guests never become Users.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
