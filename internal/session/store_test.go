package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/directory"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/state"
	apperrors "github.com/SanjanaPaudel/Sajha-Sathi/pkg/errors"
)

var nicknamePattern = regexp.MustCompile(
	`^(Brave|Wise|Kind|Swift|Gentle|Bold|Calm|Bright|Strong|Hopeful)` +
		`(Tiger|Panda|Eagle|Deer|Dolphin|Wolf|Butterfly|Elephant|Lion|Dove)$`)

type recordingToaster struct {
	successes []string
	failures  []string
}

func (t *recordingToaster) Success(title, _ string) { t.successes = append(t.successes, title) }
func (t *recordingToaster) Failure(title, _ string) { t.failures = append(t.failures, title) }

type testEnv struct {
	store   *Store
	state   *state.MemoryStore
	dir     *directory.InMemory
	toaster *recordingToaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := state.NewMemoryStore()
	return newTestEnvWith(t, mem)
}

func newTestEnvWith(t *testing.T, mem *state.MemoryStore) *testEnv {
	t.Helper()

	repo, err := NewStateRepository(mem)
	require.NoError(t, err)

	dir := directory.NewInMemory()
	require.NoError(t, dir.SeedDemo())

	toaster := &recordingToaster{}
	store, err := NewStore(Config{
		Repository: repo,
		Directory:  dir,
		Toaster:    toaster,
		Now:        func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return &testEnv{store: store, state: mem, dir: dir, toaster: toaster}
}

func TestEnterAnonymouslyGeneratesIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.store.EnterAnonymously(ctx)
	require.NoError(t, err)
	require.True(t, user.IsAnonymous)
	require.NotEmpty(t, user.ID)
	require.Regexp(t, nicknamePattern, user.Nickname)
	require.Contains(t, user.ProfilePicture, "seed=")
	require.False(t, env.store.Loading())

	// Persisted immediately: a caller can rely on storage after return.
	_, ok, err := env.state.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLoginWithBlankCredentialsEntersAnonymously(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.store.Login(context.Background(), "", "")
	require.NoError(t, err)
	require.True(t, user.IsAnonymous)
	require.Regexp(t, nicknamePattern, user.Nickname)
	require.Empty(t, user.Email)
}

func TestLoginSuccessSeedsNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	require.False(t, user.IsAnonymous)
	require.Equal(t, "SupportiveFlower", user.Nickname)
	require.Equal(t, "test@example.com", user.Email)

	list := env.store.Notifications()
	require.Len(t, list, 2)
	require.Equal(t, 1, env.store.UnreadCount())
	for _, n := range list {
		require.Equal(t, user.ID, n.UserID)
	}

	_, ok, err := env.state.Get(ctx, "notifications_"+user.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLoginFailureLeavesPriorSessionUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	anon, err := env.store.EnterAnonymously(ctx)
	require.NoError(t, err)

	_, err = env.store.Login(ctx, "x@x.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	current := env.store.CurrentUser()
	require.NotNil(t, current)
	require.Equal(t, anon.ID, current.ID)
	require.True(t, current.IsAnonymous)
	require.NotEmpty(t, env.toaster.failures)
}

func TestSignupDuplicateEmailFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.store.Signup(ctx, "a@b.com", "pw123456", "Nick")
	require.NoError(t, err)
	require.False(t, first.IsAnonymous)
	require.Equal(t, "Nick", first.Nickname)

	_, err = env.store.Signup(ctx, "a@b.com", "other", "Nick2")
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)

	current := env.store.CurrentUser()
	require.NotNil(t, current)
	require.Equal(t, first.ID, current.ID)
}

func TestSignupThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.store.Signup(ctx, "new@user.com", "pw123456", "Newcomer")
	require.NoError(t, err)

	require.NoError(t, env.store.Logout(ctx))

	user, err := env.store.Login(ctx, "new@user.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	// Case-sensitive, exact credential matching.
	_, err = env.store.Login(ctx, "new@user.com", "PW123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.store.EnterAnonymously(ctx)
	require.NoError(t, err)

	bio := "Here to listen."
	require.NoError(t, env.store.UpdateProfile(ctx, ProfileUpdate{Bio: &bio}))

	current := env.store.CurrentUser()
	require.Equal(t, bio, current.Bio)
	require.Equal(t, user.Nickname, current.Nickname)
	require.Equal(t, user.ID, current.ID)
}

func TestUpdateProfileWithoutUserIsNoop(t *testing.T) {
	env := newTestEnv(t)

	bio := "should not stick"
	require.NoError(t, env.store.UpdateProfile(context.Background(), ProfileUpdate{Bio: &bio}))
	require.Nil(t, env.store.CurrentUser())
	require.Equal(t, 0, env.state.Len())
}

func TestLogoutClearsMemoryAndStorage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, env.store.Logout(ctx))
	require.Nil(t, env.store.CurrentUser())
	require.Empty(t, env.store.Notifications())

	_, ok, err := env.state.Get(ctx, "user")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = env.state.Get(ctx, "notifications_"+user.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// Idempotent when already logged out.
	require.NoError(t, env.store.Logout(ctx))
}

func TestMarkNotificationRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, 1, env.store.UnreadCount())

	var unreadID string
	for _, n := range env.store.Notifications() {
		if !n.Read {
			unreadID = n.ID
		}
	}
	require.NotEmpty(t, unreadID)

	require.NoError(t, env.store.MarkNotificationRead(ctx, unreadID))
	require.Equal(t, 0, env.store.UnreadCount())

	// Marking again never reverts a read notification.
	require.NoError(t, env.store.MarkNotificationRead(ctx, unreadID))
	require.Equal(t, 0, env.store.UnreadCount())

	// Unknown ids are ignored.
	require.NoError(t, env.store.MarkNotificationRead(ctx, "missing"))
	require.Equal(t, 0, env.store.UnreadCount())
}

func TestMarkNotificationReadOnEmptyListSkipsPersistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.store.EnterAnonymously(ctx)
	require.NoError(t, err)

	require.NoError(t, env.store.MarkNotificationRead(ctx, "anything"))

	_, ok, err := env.state.Get(ctx, "notifications_"+user.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, env.store.MarkAllNotificationsRead(ctx))
	require.Equal(t, 0, env.store.UnreadCount())

	// Holds from an empty starting set too.
	require.NoError(t, env.store.Logout(ctx))
	require.NoError(t, env.store.MarkAllNotificationsRead(ctx))
	require.Equal(t, 0, env.store.UnreadCount())
}

func TestSessionSurvivesRestart(t *testing.T) {
	mem := state.NewMemoryStore()
	env := newTestEnvWith(t, mem)
	ctx := context.Background()

	user, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	// A second store over the same durable state simulates a reload.
	restarted := newTestEnvWith(t, mem)
	restored := restarted.store.CurrentUser()
	require.NotNil(t, restored)
	require.Equal(t, user, restored)
	require.Len(t, restarted.store.Notifications(), 2)
	require.False(t, restarted.store.Loading())
}

func TestAnonymousSessionSurvivesRestart(t *testing.T) {
	mem := state.NewMemoryStore()
	env := newTestEnvWith(t, mem)

	user, err := env.store.EnterAnonymously(context.Background())
	require.NoError(t, err)

	restarted := newTestEnvWith(t, mem)
	restored := restarted.store.CurrentUser()
	require.NotNil(t, restored)
	require.Equal(t, user, restored)
	require.True(t, restored.IsAnonymous)
}

func TestCorruptStoredSessionDegradesToLoggedOut(t *testing.T) {
	mem := state.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "user", []byte("{not json")))

	env := newTestEnvWith(t, mem)
	require.Nil(t, env.store.CurrentUser())
	require.False(t, env.store.Loading())
}

func TestCorruptStoredNotificationsKeepsIdentity(t *testing.T) {
	mem := state.NewMemoryStore()
	env := newTestEnvWith(t, mem)
	ctx := context.Background()

	user, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "notifications_"+user.ID, []byte("[broken")))

	restarted := newTestEnvWith(t, mem)
	require.NotNil(t, restarted.store.CurrentUser())
	require.Empty(t, restarted.store.Notifications())
}

func TestCommentOnOwnedProblemNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	before := len(env.store.Notifications())

	problem := models.Problem{ID: "p9", UserID: owner.ID, Title: "Need advice"}
	comment := models.Comment{ID: "c9", ProblemID: "p9", UserID: "someone-else", UserNickname: "CalmPanda"}
	require.NoError(t, env.store.HandleCommentCreated(ctx, problem, comment))

	list := env.store.Notifications()
	require.Len(t, list, before+1)
	require.Equal(t, "New comment on your post", list[0].Title)
	require.Equal(t, "p9", list[0].ProblemID)
	require.Equal(t, "c9", list[0].CommentID)
}

func TestCommentOnForeignProblemIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.store.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	before := len(env.store.Notifications())

	problem := models.Problem{ID: "p9", UserID: "other-user", Title: "Not mine"}
	comment := models.Comment{ID: "c9", ProblemID: "p9", UserID: "someone-else"}
	require.NoError(t, env.store.HandleCommentCreated(ctx, problem, comment))
	require.Len(t, env.store.Notifications(), before)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}
func (failingStore) Delete(context.Context, ...string) error { return nil }

func TestPersistenceFailureKeepsInMemoryState(t *testing.T) {
	repo, err := NewStateRepository(failingStore{})
	require.NoError(t, err)

	dir := directory.NewInMemory()
	toaster := &recordingToaster{}
	store, err := NewStore(Config{Repository: repo, Directory: dir, Toaster: toaster})
	require.NoError(t, err)

	user, err := store.EnterAnonymously(context.Background())
	require.ErrorIs(t, err, apperrors.ErrPersistenceWrite)

	// The in-memory transition stands; only durable storage lags.
	current := store.CurrentUser()
	require.NotNil(t, current)
	require.Equal(t, user.ID, current.ID)
	require.NotEmpty(t, toaster.failures)
}
