package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
)

// seededNotifications is the canned per-user set loaded on successful login.
// In production these would be fetched from a server; the contract here is
// only "load this user's notifications on successful login".
func seededNotifications(userID string, now time.Time) []models.Notification {
	return []models.Notification{
		{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     "New comment on your post",
			Message:   "Someone replied to your question about career advice",
			Read:      false,
			CreatedAt: now,
			ProblemID: "p1",
		},
		{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     "Your post is getting attention",
			Message:   "Your post about mental health has 5 new views",
			Read:      true,
			CreatedAt: now.Add(-24 * time.Hour),
			ProblemID: "p2",
			Metadata:  datatypes.JSON(`{"views":5}`),
		},
	}
}
