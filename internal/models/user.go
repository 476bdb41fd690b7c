package models

import "time"

// User describes a community member. Anonymous users carry a generated
// nickname and no credentials; registered users add email, bio, and a chosen
// nickname. IsAnonymous never flips to false for the same identity; an
// anonymous user who wants an account creates a separate registered identity.
type User struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`

	IsAnonymous bool `json:"isAnonymous"`

	Email          string `json:"email,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	HasAnonymousPosts bool `json:"hasAnonymousPosts,omitempty"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cpy := *u
	return &cpy
}
