package models

import (
	"time"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair issued on register and login. On refresh only the access token
// is reissued unless the session was rotated.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
