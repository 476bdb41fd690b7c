// Package session owns the current user identity and the notification list
// for that user, persisting both across restarts through the durable local
// state. It is the single owner of session state: every other component
// reads from it or mutates through its operations.
package session

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/directory"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	apperrors "github.com/SanjanaPaudel/Sajha-Sathi/pkg/errors"
	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/logger"
)

// Config wires the store's collaborators. Repository and Directory are
// required; the rest default to sensible production values.
type Config struct {
	Repository Repository
	Directory  directory.Directory

	Toaster Toaster
	Logger  *zap.Logger

	// Now and RandInt exist so tests can pin time and nickname choice.
	Now     func() time.Time
	RandInt func(n int) int
}

// Store is the session state container. One instance exists per running
// application and is injected into its callers; the store is never ambient
// package state.
//
// The application's single UI thread is the only expected caller, so no two
// operations should ever interleave. The mutex preserves that contract for
// arbitrary Go callers rather than replacing it: each operation still runs to
// completion, including persistence, before returning.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	dir     directory.Directory
	toaster Toaster
	log     *zap.Logger
	now     func() time.Time
	randInt func(n int) int

	currentUser   *models.User
	notifications []models.Notification
	loading       bool
}

// NewStore constructs the store and restores any persisted session. A failed
// restore degrades to the logged-out state; it is never fatal.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Repository == nil {
		return nil, errors.New("session: repository is required")
	}
	if cfg.Directory == nil {
		return nil, errors.New("session: directory is required")
	}

	s := &Store{
		repo:    cfg.Repository,
		dir:     cfg.Directory,
		toaster: cfg.Toaster,
		log:     cfg.Logger,
		now:     cfg.Now,
		randInt: cfg.RandInt,
		loading: true,
	}
	if s.toaster == nil {
		s.toaster = NewLogToaster()
	}
	if s.log == nil {
		s.log = logger.WithModule("session")
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.randInt == nil {
		s.randInt = mrand.IntN
	}

	s.restore(context.Background())
	return s, nil
}

// restore reloads the persisted session. Malformed data logs and degrades;
// loading is cleared unconditionally.
func (s *Store) restore(ctx context.Context) {
	defer func() { s.loading = false }()

	user, err := s.repo.LoadUser(ctx)
	if err != nil {
		s.log.Warn("session restore failed",
			zap.String("code", apperrors.ErrRestoreFailed.Code),
			zap.Error(err))
		return
	}
	if user == nil {
		return
	}
	s.currentUser = user

	list, err := s.repo.LoadNotifications(ctx, user.ID)
	if err != nil {
		// The identity survived, so keep it and start with an empty list.
		s.log.Warn("notification restore failed",
			zap.String("code", apperrors.ErrRestoreFailed.Code),
			zap.String("user_id", user.ID),
			zap.Error(err))
		return
	}
	s.notifications = list
}

// EnterAnonymously creates a fresh anonymous identity with a generated
// nickname and makes it current.
func (s *Store) EnterAnonymously(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enterAnonymouslyLocked(ctx)
}

func (s *Store) enterAnonymouslyLocked(ctx context.Context) (*models.User, error) {
	nickname := generateNickname(s.randInt)
	user := &models.User{
		ID:             uuid.NewString(),
		Nickname:       nickname,
		IsAnonymous:    true,
		ProfilePicture: avatarURL(nickname),
		CreatedAt:      s.now().UTC(),
	}

	s.currentUser = user
	s.notifications = nil

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return user.Clone(), s.persistFailure("Login failed", err)
	}

	s.toaster.Success("Anonymous login successful", fmt.Sprintf("Welcome, %s!", user.Nickname))
	return user.Clone(), nil
}

// Login establishes a registered session. Missing credentials are treated as
// a request for anonymous entry, not as an error. A failed lookup leaves any
// prior session untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" || password == "" {
		return s.enterAnonymouslyLocked(ctx)
	}

	user, err := s.dir.Authenticate(ctx, email, password)
	if err != nil {
		s.toaster.Failure("Login failed", apperrors.FromError(err).Message)
		return nil, err
	}

	s.currentUser = user
	s.notifications = seededNotifications(user.ID, s.now().UTC())

	persistErr := multierr.Combine(
		s.repo.SaveUser(ctx, user),
		s.repo.SaveNotifications(ctx, user.ID, s.notifications),
	)
	if persistErr != nil {
		return user.Clone(), s.persistFailure("Login failed", persistErr)
	}

	s.toaster.Success("Login successful", fmt.Sprintf("Welcome back, %s!", user.Nickname))
	return user.Clone(), nil
}

// Signup registers a new account and makes it the current user. The
// directory keeps the credential record; only the public profile becomes
// session state. Directory membership lives for the process lifetime only.
func (s *Store) Signup(ctx context.Context, email, password, nickname string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &models.User{
		ID:             uuid.NewString(),
		Nickname:       nickname,
		IsAnonymous:    false,
		Email:          email,
		ProfilePicture: avatarURL(nickname),
		CreatedAt:      s.now().UTC(),
	}

	if err := s.dir.Create(ctx, directory.CreateInput{User: *user, Password: password}); err != nil {
		s.toaster.Failure("Signup failed", apperrors.FromError(err).Message)
		return nil, err
	}

	s.currentUser = user
	s.notifications = nil

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return user.Clone(), s.persistFailure("Signup failed", err)
	}

	s.toaster.Success("Account created successfully", fmt.Sprintf("Welcome, %s!", nickname))
	return user.Clone(), nil
}

// ProfileUpdate lists the mutable profile fields. Set fields overwrite,
// unset fields retain their prior value.
type ProfileUpdate struct {
	Nickname          *string
	Email             *string
	Bio               *string
	ProfilePicture    *string
	HasAnonymousPosts *bool
}

// UpdateProfile shallow-merges the update into the current user and
// persists. A call with no current user is a no-op.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return nil
	}

	if update.Nickname != nil {
		s.currentUser.Nickname = *update.Nickname
	}
	if update.Email != nil {
		s.currentUser.Email = *update.Email
	}
	if update.Bio != nil {
		s.currentUser.Bio = *update.Bio
	}
	if update.ProfilePicture != nil {
		s.currentUser.ProfilePicture = *update.ProfilePicture
	}
	if update.HasAnonymousPosts != nil {
		s.currentUser.HasAnonymousPosts = *update.HasAnonymousPosts
	}

	if err := s.repo.SaveUser(ctx, s.currentUser); err != nil {
		return s.persistFailure("Update failed", err)
	}

	s.toaster.Success("Profile updated", "Your profile has been updated successfully.")
	return nil
}

// Logout clears the session from memory and durable storage. Calling it when
// already logged out is a safe no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if s.currentUser != nil {
		userID = s.currentUser.ID
	}

	s.currentUser = nil
	s.notifications = nil

	clearErr := s.repo.ClearUser(ctx)
	if userID != "" {
		clearErr = multierr.Append(clearErr, s.repo.ClearNotifications(ctx, userID))
	}
	if clearErr != nil {
		return s.persistFailure("Logout failed", clearErr)
	}

	s.toaster.Success("Logged out successfully", "Your session has ended.")
	return nil
}

// MarkNotificationRead flags the matching notification as read. An unknown
// id is a no-op, not an error. The list is persisted only when non-empty,
// matching the storage contract callers rely on.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
		}
	}
	return s.persistNotificationsLocked(ctx)
}

// MarkAllNotificationsRead flags every notification as read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	return s.persistNotificationsLocked(ctx)
}

// HandleCommentCreated is the content-store hook: a new comment on a problem
// the current user owns produces a notification. Comments on other users'
// problems and self-comments are ignored.
func (s *Store) HandleCommentCreated(ctx context.Context, problem models.Problem, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil || s.currentUser.ID != problem.UserID {
		return nil
	}
	if comment.UserID == problem.UserID {
		return nil
	}

	notification := models.Notification{
		ID:        uuid.NewString(),
		UserID:    s.currentUser.ID,
		Title:     "New comment on your post",
		Message:   fmt.Sprintf("%s replied to %q", comment.UserNickname, problem.Title),
		CreatedAt: s.now().UTC(),
		ProblemID: problem.ID,
		CommentID: comment.ID,
	}
	s.notifications = append([]models.Notification{notification}, s.notifications...)

	return s.persistNotificationsLocked(ctx)
}

// CurrentUser returns a copy of the active identity, or nil when logged out.
func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser.Clone()
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Notification, len(s.notifications))
	copy(list, s.notifications)
	return list
}

// UnreadCount is derived on every read so it can never drift from the list.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			count++
		}
	}
	return count
}

// Loading reports whether the initial restore has completed.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) persistNotificationsLocked(ctx context.Context) error {
	if s.currentUser == nil || len(s.notifications) == 0 {
		return nil
	}
	if err := s.repo.SaveNotifications(ctx, s.currentUser.ID, s.notifications); err != nil {
		return s.persistFailure("Update failed", err)
	}
	return nil
}

// persistFailure surfaces a storage write error as a toast plus a structured
// error. The in-memory state change is deliberately not rolled back; the
// accepted risk is storage lagging memory until the next successful write.
func (s *Store) persistFailure(title string, err error) error {
	s.log.Error("persistence write failed", zap.Error(err))
	s.toaster.Failure(title, apperrors.ErrPersistenceWrite.Message)
	return apperrors.ErrPersistenceWrite.WithInternal(err)
}
