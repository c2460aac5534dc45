package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

func TestSignup_CreatesIdentity(t *testing.T) {
	f := newFixture(t)

	id, err := f.accounts.Signup(context.Background(), "alice", "longpassword1")
	require.NoError(t, err)
	assert.NotEmpty(t, id.ID)
	assert.Equal(t, "alice", id.Handle)
	assert.NotEqual(t, "longpassword1", id.CredentialHash)
	assert.Equal(t, f.clock.t.UnixNano(), id.PasswordEpoch)
	assert.Equal(t, []string{EventIdentityCreated}, f.events.types())
}

func TestSignup_DuplicateHandleWinsOverPasswordPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.accounts.Signup(ctx, "alice", "longpassword1")
	require.NoError(t, err)

	for _, pwd := range []string{"longpassword1", "another-password", "short"} {
		_, err := f.accounts.Signup(ctx, "alice", pwd)
		assert.ErrorIs(t, err, apperror.ErrHandleTaken, pwd)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.NotContains(t, err.Error(), "alice")
	}
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Signup(ctx, "bob", "short")
	assert.ErrorIs(t, err, apperror.ErrPasswordTooShort)

	_, err = f.accounts.Signup(ctx, "  ", "longpassword1")
	assert.ErrorIs(t, err, apperror.ErrHandleRequired)

	_, err = f.store.Identities().FindByHandle(ctx, "bob")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestLogin_UniformFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.accounts.Signup(ctx, "alice", "longpassword1")
	require.NoError(t, err)

	_, wrongPwd := f.accounts.Login(ctx, "alice", "wrongpassword")
	_, unknown := f.accounts.Login(ctx, "mallory", "longpassword1")

	assert.ErrorIs(t, wrongPwd, apperror.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, apperror.ErrInvalidCredentials)
	assert.Equal(t, wrongPwd.Error(), unknown.Error())
}

func TestLogin_TokenValidatesAndRecordsActivity(t *testing.T) {
	f := newFixture(t)
	activity := newStubActivity()
	f.accounts.Activity = activity

	identity, token := f.signupAndLogin(t, "alice", "longpassword1")

	got, err := f.validator.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, f.clock.t.UTC(), activity.logins[identity.ID])
}

// signup, failed login, login, password change, stale token, fresh login.
func TestPasswordChangeInvalidatesOutstandingTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Signup(ctx, "alice", "longpassword1")
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, "alice", "nope-nope-nope")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	res, err := f.accounts.Login(ctx, "alice", "longpassword1")
	require.NoError(t, err)
	t1 := res.Token

	current, err := f.validator.Validate(ctx, t1)
	require.NoError(t, err)

	// same clock reading as signup; the epoch must still move forward
	updated, err := f.accounts.ChangePassword(ctx, current, "longpassword1", "longpassword2")
	require.NoError(t, err)
	assert.Greater(t, updated.PasswordEpoch, current.PasswordEpoch)

	_, err = f.validator.Validate(ctx, t1)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
	assert.Equal(t, "token expired", err.Error())

	_, err = f.accounts.Login(ctx, "alice", "longpassword1")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	res, err = f.accounts.Login(ctx, "alice", "longpassword2")
	require.NoError(t, err)
	_, err = f.validator.Validate(ctx, res.Token)
	assert.NoError(t, err)

	assert.Equal(t, []string{EventIdentityCreated, EventIdentityPasswordChanged}, f.events.types())
}

func TestChangePassword_UsesClockWhenAhead(t *testing.T) {
	f := newFixture(t)
	identity, _ := f.signupAndLogin(t, "alice", "longpassword1")

	f.clock.t = f.clock.t.Add(time.Minute)
	updated, err := f.accounts.ChangePassword(context.Background(), identity, "longpassword1", "longpassword2")
	require.NoError(t, err)
	assert.Equal(t, f.clock.t.UnixNano(), updated.PasswordEpoch)
}

func TestChangePassword_Errors(t *testing.T) {
	f := newFixture(t)
	identity, token := f.signupAndLogin(t, "alice", "longpassword1")
	ctx := context.Background()

	_, err := f.accounts.ChangePassword(ctx, identity, "wrong-old-password", "longpassword2")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = f.accounts.ChangePassword(ctx, identity, "longpassword1", "short")
	assert.ErrorIs(t, err, apperror.ErrPasswordTooShort)

	// failed attempts leave tokens valid
	_, err = f.validator.Validate(ctx, token)
	assert.NoError(t, err)
}

func TestDeleteAccount_RemovesIdentityAndTasks(t *testing.T) {
	f := newFixture(t)
	activity := newStubActivity()
	f.accounts.Activity = activity
	ctx := context.Background()

	alice, token := f.signupAndLogin(t, "alice", "longpassword1")
	bob, _ := f.signupAndLogin(t, "bob", "longpassword1")
	_, err := f.tasks.Create(ctx, alice, "a1")
	require.NoError(t, err)
	bobTask, err := f.tasks.Create(ctx, bob, "b1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.accounts.DeleteAccount(ctx, alice, "wrong-password"), apperror.ErrInvalidCredentials)

	require.NoError(t, f.accounts.DeleteAccount(ctx, alice, "longpassword1"))

	_, err = f.validator.Validate(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	left, err := f.store.Tasks().FindByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	got, err := f.tasks.Get(ctx, bob, bobTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "b1", got.Text)

	assert.Equal(t, []string{alice.ID}, activity.forgot)
	assert.Contains(t, f.events.types(), EventIdentityDeleted)

	// handle is free again
	_, err = f.accounts.Signup(ctx, "alice", "longpassword1")
	assert.NoError(t, err)
}

func TestPublishFailureDoesNotFailSignup(t *testing.T) {
	f := newFixture(t)
	f.events.err = errBoom

	_, err := f.accounts.Signup(context.Background(), "alice", "longpassword1")
	assert.NoError(t, err)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	identity, _ := f.signupAndLogin(t, "alice", "longpassword1")
	ctx := context.Background()

	p := f.accounts.Me(ctx, identity)
	assert.Equal(t, identity.ID, p.ID)
	assert.Equal(t, "alice", p.Handle)
	assert.Nil(t, p.Activity)

	activity := newStubActivity()
	f.accounts.Activity = activity
	_, err := f.accounts.Login(ctx, "alice", "longpassword1")
	require.NoError(t, err)

	p = f.accounts.Me(ctx, identity)
	require.NotNil(t, p.Activity)
	require.NotNil(t, p.Activity.LastLoginAt)
	assert.Nil(t, p.Activity.PasswordChangedAt)

	activity.loadErr = errBoom
	assert.Nil(t, f.accounts.Me(ctx, identity).Activity)
}

func TestConcurrentSignupsYieldOneIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := f.accounts.Signup(ctx, "alice", "longpassword1")
			results <- err
		}()
	}
	ok := 0
	for i := 0; i < 8; i++ {
		err := <-results
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrHandleTaken)
	}
	assert.Equal(t, 1, ok)

	_, err := f.store.Identities().FindByHandle(ctx, "alice")
	assert.NoError(t, err)
}
