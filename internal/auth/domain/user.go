package domain

import "time"

type UserID string

type User struct {
	ID                  UserID
	Username            string
	Email               string
	PasswordHash        []byte
	PasswordSalt        []byte
	DateOfBirth         time.Time
	ProfilePicture      string
	ResetTokenHash      string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProfileUpdate carries the fields a user may change. A nil field is left
// untouched.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	ProfilePicture *string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.ProfilePicture == nil
}

type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}
