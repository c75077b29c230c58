package domain

import "time"

// Claims is the identity carried by a validated session token.
type Claims struct {
	UserID         UserID
	Email          string
	Username       string
	ProfilePicture string
	TokenID        string
	Issuer         string
	Audience       []string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// Map renders the claims the way check-auth reports them to the client.
func (c Claims) Map() map[string]any {
	return map[string]any{
		"sub":            string(c.UserID),
		"email":          c.Email,
		"username":       c.Username,
		"profilePicture": c.ProfilePicture,
		"jti":            c.TokenID,
		"iss":            c.Issuer,
		"aud":            c.Audience,
		"iat":            c.IssuedAt.Unix(),
		"exp":            c.ExpiresAt.Unix(),
	}
}
