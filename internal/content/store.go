// Package content holds the mock problem/comment feed. Content lives in
// memory only; the session core records ownership linkage but never manages
// content itself.
package content

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	apperrors "github.com/SanjanaPaudel/Sajha-Sathi/pkg/errors"
	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/logger"
	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/validator"
)

// CommentObserver is notified after a comment lands on a problem. The
// session store implements it to turn comments on owned posts into
// notifications.
type CommentObserver interface {
	HandleCommentCreated(ctx context.Context, problem models.Problem, comment models.Comment) error
}

// CreateProblemInput describes a new problem post.
type CreateProblemInput struct {
	Title       string          `json:"title" validate:"required,min=5,max=200"`
	Description string          `json:"description" validate:"required,min=10"`
	Tags        []string        `json:"tags" validate:"max=5,dive,min=2,max=32"`
	Location    models.Location `json:"location"`
	IsAnonymous bool            `json:"isAnonymous"`
}

// AddCommentInput describes a new comment.
type AddCommentInput struct {
	ProblemID string `json:"problemId" validate:"required"`
	Content   string `json:"content" validate:"required,min=2"`
}

// Store is the in-memory content feed.
type Store struct {
	mu        sync.RWMutex
	problems  []models.Problem
	comments  map[string][]models.Comment
	upvotes   map[string]map[string]struct{} // comment id -> voter ids
	observers []CommentObserver
	log       *zap.Logger
	now       func() time.Time
}

// NewStore constructs an empty content store.
func NewStore() *Store {
	return &Store{
		comments: make(map[string][]models.Comment),
		upvotes:  make(map[string]map[string]struct{}),
		log:      logger.WithModule("content"),
		now:      time.Now,
	}
}

// Subscribe registers an observer for comment events.
func (s *Store) Subscribe(observer CommentObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// ListProblems returns visible problems, newest first.
func (s *Store) ListProblems() []models.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Problem, 0, len(s.problems))
	for _, p := range s.problems {
		if p.Status == models.ProblemHidden {
			continue
		}
		list = append(list, p)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// FilterByTag returns visible problems carrying the supplied tag.
func (s *Store) FilterByTag(tag string) []models.Problem {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return s.ListProblems()
	}

	matched := make([]models.Problem, 0)
	for _, p := range s.ListProblems() {
		for _, t := range p.Tags {
			if strings.ToLower(t) == tag {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}

// GetProblem returns the problem with the supplied id.
func (s *Store) GetProblem(id string) (*models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.problems {
		if s.problems[i].ID == id {
			cpy := s.problems[i]
			return &cpy, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// CreateProblem validates and appends a new post for the author. An
// anonymous post hides the author's profile picture.
func (s *Store) CreateProblem(_ context.Context, author *models.User, input CreateProblemInput) (*models.Problem, error) {
	if author == nil {
		return nil, errors.New("content: author is required")
	}
	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	problem := models.Problem{
		ID:           uuid.NewString(),
		UserID:       author.ID,
		UserNickname: author.Nickname,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Tags:         normalizeTags(input.Tags),
		Location:     input.Location,
		CreatedAt:    s.now().UTC(),
		Status:       models.ProblemActive,
		IsAnonymous:  input.IsAnonymous,
	}
	if !input.IsAnonymous {
		problem.UserProfilePicture = author.ProfilePicture
	}

	s.mu.Lock()
	s.problems = append(s.problems, problem)
	s.mu.Unlock()

	return &problem, nil
}

// ListComments returns the comments for a problem, oldest first, with the
// viewer's upvote flag filled in.
func (s *Store) ListComments(problemID, viewerID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.comments[problemID]
	list := make([]models.Comment, len(stored))
	copy(list, stored)
	for i := range list {
		if voters, ok := s.upvotes[list[i].ID]; ok {
			// Seeded counts are a baseline; live voters add on top.
			list[i].Upvotes += len(voters)
			if viewerID != "" {
				_, list[i].HasUserUpvoted = voters[viewerID]
			}
		}
	}
	return list
}

// AddComment validates and appends a comment, bumps the problem's comment
// count, and fans the event out to observers.
func (s *Store) AddComment(ctx context.Context, author *models.User, input AddCommentInput) (*models.Comment, error) {
	if author == nil {
		return nil, errors.New("content: author is required")
	}
	if err := validator.ValidateStruct(input); err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	s.mu.Lock()
	var problem *models.Problem
	for i := range s.problems {
		if s.problems[i].ID == input.ProblemID {
			problem = &s.problems[i]
			break
		}
	}
	if problem == nil {
		s.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}

	comment := models.Comment{
		ID:           uuid.NewString(),
		ProblemID:    problem.ID,
		UserID:       author.ID,
		UserNickname: author.Nickname,
		Content:      strings.TrimSpace(input.Content),
		CreatedAt:    s.now().UTC(),
	}
	if !author.IsAnonymous {
		comment.UserProfilePicture = author.ProfilePicture
	}

	s.comments[problem.ID] = append(s.comments[problem.ID], comment)
	problem.CommentCount = len(s.comments[problem.ID])

	problemCopy := *problem
	observers := make([]CommentObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, observer := range observers {
		if err := observer.HandleCommentCreated(ctx, problemCopy, comment); err != nil {
			s.log.Warn("comment observer failed",
				zap.String("problem_id", problemCopy.ID),
				zap.Error(err))
		}
	}

	return &comment, nil
}

// ToggleUpvote flips the viewer's upvote on a comment and returns the new
// count.
func (s *Store) ToggleUpvote(viewerID, commentID string) (int, error) {
	if viewerID == "" {
		return 0, apperrors.NewBadRequest("viewer is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := -1
	for _, list := range s.comments {
		for i := range list {
			if list[i].ID == commentID {
				base = list[i].Upvotes
				break
			}
		}
	}
	if base < 0 {
		return 0, apperrors.ErrNotFound
	}

	voters := s.upvotes[commentID]
	if voters == nil {
		voters = make(map[string]struct{})
		s.upvotes[commentID] = voters
	}
	if _, ok := voters[viewerID]; ok {
		delete(voters, viewerID)
	} else {
		voters[viewerID] = struct{}{}
	}
	return base + len(voters), nil
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}
