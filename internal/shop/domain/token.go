package domain

import "time"

// AccessToken is a signed bearer token handed out by the login endpoint.
// Nothing about it is stored server side.
type AccessToken struct {
	Token     string
	TokenID   string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenTypeBearer is the token_type reported to clients.
const TokenTypeBearer = "bearer"
