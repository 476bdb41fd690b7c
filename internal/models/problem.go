package models

import "time"

// ProblemStatus enumerates the lifecycle states of a posted problem.
type ProblemStatus string

const (
	ProblemActive   ProblemStatus = "active"
	ProblemResolved ProblemStatus = "resolved"
	ProblemHidden   ProblemStatus = "hidden"
)

// Location is a mock coordinate attached to a problem. No real geocoding
// happens anywhere; the values only feed the map mock.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

// Problem is a community post asking for support or advice.
type Problem struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	UserNickname string        `json:"userNickname"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags"`
	Location     Location      `json:"location"`
	CreatedAt    time.Time     `json:"createdAt"`
	CommentCount int           `json:"commentCount"`
	Status       ProblemStatus `json:"status"`

	IsAnonymous        bool   `json:"isAnonymous,omitempty"`
	UserProfilePicture string `json:"userProfilePicture,omitempty"`
}
