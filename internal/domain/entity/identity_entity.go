package entity

import (
	"time"
)

// Identity is the aggregate root for an account.
// CredentialHash holds a bcrypt hash; PasswordEpoch is advanced on every password
// change and is compared against the epoch embedded in session tokens.
type Identity struct {
	ID             string
	Handle         string
	CredentialHash string
	PasswordEpoch  int64
	CreatedAt      time.Time
}

// NextPasswordEpoch returns an epoch strictly greater than the current one,
// preferring the wall clock when it has moved forward.
func (i *Identity) NextPasswordEpoch(now time.Time) int64 {
	next := now.UnixNano()
	if next <= i.PasswordEpoch {
		next = i.PasswordEpoch + 1
	}
	return next
}
