package domain

import "time"

// User is a registered account. The password hash is kept on its own column
// so credential rotation never has to touch the rest of the record.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt modular crypt format
	CreatedAt    time.Time
}

// Identity is what a verified token resolves to. It never carries the hash.
type Identity struct {
	UserID   string
	Username string
}

// Identity returns the public descriptor of u.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}
