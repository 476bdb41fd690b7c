package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	apperrors "github.com/SanjanaPaudel/Sajha-Sathi/pkg/errors"
)

func author() *models.User {
	return &models.User{
		ID:             "u1",
		Nickname:       "BraveTiger",
		ProfilePicture: "https://api.dicebear.com/7.x/initials/svg?seed=BR",
	}
}

func TestSeedLoadsDemoFeed(t *testing.T) {
	store := NewStore()
	store.Seed()

	problems := store.ListProblems()
	require.Len(t, problems, 4)

	// Newest first: p3 (1 day old) before p1 (2 days) before p4 (3) before p2 (5).
	require.Equal(t, "p3", problems[0].ID)
	require.Equal(t, "p1", problems[1].ID)
	require.Equal(t, "p4", problems[2].ID)
	require.Equal(t, "p2", problems[3].ID)

	p1, err := store.GetProblem("p1")
	require.NoError(t, err)
	require.Equal(t, 3, p1.CommentCount)
	require.Len(t, store.ListComments("p1", ""), 3)
	require.Empty(t, store.ListComments("p4", ""))
}

func TestFilterByTag(t *testing.T) {
	store := NewStore()
	store.Seed()

	career := store.FilterByTag("career")
	require.Len(t, career, 2)
	for _, p := range career {
		require.Contains(t, p.Tags, "career")
	}

	require.Empty(t, store.FilterByTag("nope"))
	require.Len(t, store.FilterByTag(""), 4)
}

func TestCreateProblem(t *testing.T) {
	store := NewStore()

	problem, err := store.CreateProblem(context.Background(), author(), CreateProblemInput{
		Title:       "Looking for a study group",
		Description: "Anyone preparing for the same exams around Patan?",
		Tags:        []string{"Education", " community "},
		Location:    models.Location{Latitude: 27.65, Longitude: 85.32, Name: "Patan"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ProblemActive, problem.Status)
	require.Equal(t, []string{"education", "community"}, problem.Tags)
	require.Equal(t, "u1", problem.UserID)
	require.NotEmpty(t, problem.UserProfilePicture)

	listed := store.ListProblems()
	require.Len(t, listed, 1)
}

func TestCreateProblemAnonymousHidesAvatar(t *testing.T) {
	store := NewStore()

	problem, err := store.CreateProblem(context.Background(), author(), CreateProblemInput{
		Title:       "Posting this one quietly",
		Description: "I would rather not attach my profile to this.",
		IsAnonymous: true,
	})
	require.NoError(t, err)
	require.True(t, problem.IsAnonymous)
	require.Empty(t, problem.UserProfilePicture)
}

func TestCreateProblemValidation(t *testing.T) {
	store := NewStore()

	_, err := store.CreateProblem(context.Background(), author(), CreateProblemInput{
		Title:       "hey",
		Description: "too short",
	})
	require.Error(t, err)
	require.ErrorContains(t, err, "title")

	_, err = store.CreateProblem(context.Background(), nil, CreateProblemInput{})
	require.Error(t, err)
}

type recordingObserver struct {
	problems []models.Problem
	comments []models.Comment
}

func (o *recordingObserver) HandleCommentCreated(_ context.Context, p models.Problem, c models.Comment) error {
	o.problems = append(o.problems, p)
	o.comments = append(o.comments, c)
	return nil
}

func TestAddCommentNotifiesObservers(t *testing.T) {
	store := NewStore()
	store.Seed()

	observer := &recordingObserver{}
	store.Subscribe(observer)

	comment, err := store.AddComment(context.Background(), author(), AddCommentInput{
		ProblemID: "p4",
		Content:   "Look into local women-in-tech meetups, they are welcoming to beginners.",
	})
	require.NoError(t, err)
	require.Equal(t, "p4", comment.ProblemID)

	p4, err := store.GetProblem("p4")
	require.NoError(t, err)
	require.Equal(t, 1, p4.CommentCount)

	require.Len(t, observer.comments, 1)
	require.Equal(t, comment.ID, observer.comments[0].ID)
	require.Equal(t, "p4", observer.problems[0].ID)
}

func TestAddCommentUnknownProblem(t *testing.T) {
	store := NewStore()

	_, err := store.AddComment(context.Background(), author(), AddCommentInput{
		ProblemID: "missing",
		Content:   "hello there",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleUpvote(t *testing.T) {
	store := NewStore()
	store.Seed()

	// c1 seeds with 7 upvotes.
	count, err := store.ToggleUpvote("viewer", "c1")
	require.NoError(t, err)
	require.Equal(t, 8, count)

	comments := store.ListComments("p1", "viewer")
	require.Equal(t, 8, comments[0].Upvotes)
	require.True(t, comments[0].HasUserUpvoted)

	count, err = store.ToggleUpvote("viewer", "c1")
	require.NoError(t, err)
	require.Equal(t, 7, count)

	_, err = store.ToggleUpvote("viewer", "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = store.ToggleUpvote("", "c1")
	require.Error(t, err)
}
