// Package directory holds the registered-user directory. The directory is an
// explicit collaborator of the session store: membership lives only for the
// process lifetime, while the session itself survives restarts through the
// durable state store. A production deployment would back this interface with
// a real datastore.
package directory

import (
	"context"
	"sync"
	"time"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/crypto"
	apperrors "github.com/SanjanaPaudel/Sajha-Sathi/pkg/errors"
)

// Record pairs a registered user's public profile with their credential hash.
type Record struct {
	User         models.User
	PasswordHash string
}

// CreateInput describes a new registered account.
type CreateInput struct {
	User     models.User
	Password string
}

// Directory looks up and creates registered accounts. Email matching is
// exact and case-sensitive.
type Directory interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, input CreateInput) error
}

// InMemory is the process-lifetime Directory implementation.
type InMemory struct {
	mu      sync.RWMutex
	records []Record
}

// NewInMemory constructs an empty directory.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Authenticate returns the public profile matching the supplied credentials,
// or ErrInvalidCredentials. Credential material never leaves the directory.
func (d *InMemory) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.records {
		record := &d.records[i]
		if record.User.Email != email {
			continue
		}
		if !crypto.VerifyPassword(record.PasswordHash, password) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return record.User.Clone(), nil
	}
	return nil, apperrors.ErrInvalidCredentials
}

// Exists reports whether an account with the exact email is registered.
func (d *InMemory) Exists(_ context.Context, email string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.records {
		if d.records[i].User.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Create registers a new account, hashing the password before storing it.
// An existing record with the same email yields ErrEmailTaken.
func (d *InMemory) Create(_ context.Context, input CreateInput) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.records {
		if d.records[i].User.Email == input.User.Email {
			return apperrors.ErrEmailTaken
		}
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return apperrors.Wrap(err, "Unable to create account")
	}

	d.records = append(d.records, Record{
		User:         input.User,
		PasswordHash: hash,
	})
	return nil
}

// Len reports the number of registered accounts.
func (d *InMemory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// SeedDemo registers the demo account the mock application ships with so a
// fresh process has someone to log in as.
func (d *InMemory) SeedDemo() error {
	created, _ := time.Parse(time.RFC3339, "2023-01-15T10:30:00Z")
	return d.Create(context.Background(), CreateInput{
		User: models.User{
			ID:                "user1",
			Nickname:          "SupportiveFlower",
			IsAnonymous:       false,
			Email:             "test@example.com",
			Bio:               "I'm here to support others and share experiences.",
			ProfilePicture:    "https://api.dicebear.com/7.x/initials/svg?seed=JD",
			CreatedAt:         created,
			HasAnonymousPosts: true,
		},
		Password: "password123",
	})
}
