package models

import "time"

// Comment is a reply left on a problem.
type Comment struct {
	ID           string    `json:"id"`
	ProblemID    string    `json:"problemId"`
	UserID       string    `json:"userId"`
	UserNickname string    `json:"userNickname"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	Upvotes      int       `json:"upvotes"`

	HasUserUpvoted     bool   `json:"hasUserUpvoted,omitempty"`
	IsAnonymous        bool   `json:"isAnonymous,omitempty"`
	UserProfilePicture string `json:"userProfilePicture,omitempty"`
}
