package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification represents an in-app notification scoped to a single user.
// ProblemID and CommentID are optional cross-references used by the UI for
// click-through navigation.
type Notification struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`

	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`

	ProblemID string `json:"problemId,omitempty"`
	CommentID string `json:"commentId,omitempty"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`
}
