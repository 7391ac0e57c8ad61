package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/accountd/internal/mocks"
	"github.com/dtroode/accountd/internal/model"
	"github.com/dtroode/accountd/internal/testutil"
)

// fakeNotifier records the last send and signals completion, so tests can
// wait for the detached dispatch goroutine.
type fakeNotifier struct {
	sent chan sentNotification
	err  error
}

type sentNotification struct {
	email   string
	payload string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan sentNotification, 1)}
}

func (f *fakeNotifier) Send(_ context.Context, email string, payload string) error {
	f.sent <- sentNotification{email: email, payload: payload}
	return f.err
}

func (f *fakeNotifier) waitForSend(t *testing.T) sentNotification {
	t.Helper()
	select {
	case n := <-f.sent:
		return n
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
		return sentNotification{}
	}
}

func newAuthForTest(
	users *mocks.UserStore,
	tokens *mocks.VerificationTokenStore,
	hasher *mocks.PasswordHasher,
	sessions *mocks.TokenManager,
	notifier model.Notifier,
) *Auth {
	return NewAuth(users, tokens, hasher, sessions, notifier, time.Hour, testutil.MakeNoopLogger())
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}
	notifier := newFakeNotifier()

	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "alice@x.com" &&
			u.FullName == "Alice" &&
			u.PasswordHash == "hashed" &&
			u.ID != uuid.Nil &&
			!u.CreatedAt.IsZero()
	})).Return(model.User{}, nil)
	tokens.On("Issue", mock.Anything, "alice@x.com", time.Hour).Return("tok123", nil)

	a := newAuthForTest(users, tokens, hasher, sessions, notifier)

	require.NoError(t, a.Register(ctx, RegisterParams{FullName: "Alice", Email: "alice@x.com", Password: "secret1"}))

	sent := notifier.waitForSend(t)
	assert.Equal(t, "alice@x.com", sent.email)
	assert.Equal(t, "tok123", sent.payload)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
	hasher.AssertExpectations(t)
}

func TestAuth_Register_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}
	notifier := newFakeNotifier()

	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "alice@x.com"
	})).Return(model.User{}, nil)
	tokens.On("Issue", mock.Anything, "alice@x.com", time.Hour).Return("tok123", nil)

	a := newAuthForTest(users, tokens, hasher, sessions, notifier)

	require.NoError(t, a.Register(ctx, RegisterParams{FullName: "Alice", Email: "  Alice@X.Com ", Password: "secret1"}))
	notifier.waitForSend(t)

	users.AssertExpectations(t)
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}
	notifier := newFakeNotifier()

	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrEmailTaken)

	a := newAuthForTest(users, tokens, hasher, sessions, notifier)

	err := a.Register(ctx, RegisterParams{FullName: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.ErrorIs(t, err, model.ErrEmailTaken)

	tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, notifier.sent)
}

func TestAuth_Register_HashFailure(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}

	hasher.On("Hash", "secret1").Return("", errors.New("entropy exhausted"))

	a := newAuthForTest(users, tokens, hasher, sessions, newFakeNotifier())

	err := a.Register(ctx, RegisterParams{FullName: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_IssueFailure(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}

	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, nil)
	tokens.On("Issue", mock.Anything, "alice@x.com", time.Hour).Return("", errors.New("db down"))

	a := newAuthForTest(users, tokens, hasher, sessions, newFakeNotifier())

	err := a.Register(ctx, RegisterParams{FullName: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrEmailTaken)
}

func TestAuth_Register_NotifierFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	tokens := &mocks.VerificationTokenStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}
	notifier := newFakeNotifier()
	notifier.err = errors.New("relay refused connection")

	hasher.On("Hash", "secret1").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, nil)
	tokens.On("Issue", mock.Anything, "alice@x.com", time.Hour).Return("tok123", nil)

	a := newAuthForTest(users, tokens, hasher, sessions, notifier)

	require.NoError(t, a.Register(ctx, RegisterParams{FullName: "Alice", Email: "alice@x.com", Password: "secret1"}))
	notifier.waitForSend(t)
}

func TestAuth_VerifyEmail(t *testing.T) {
	tests := []struct {
		name       string
		consumeErr error
		wantErr    error
	}{
		{name: "valid token"},
		{name: "invalid token", consumeErr: model.ErrTokenInvalid, wantErr: model.ErrTokenInvalid},
		{name: "expired token", consumeErr: model.ErrTokenExpired, wantErr: model.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mocks.VerificationTokenStore{}
			tokens.On("Consume", mock.Anything, "tok123").Return("alice@x.com", tt.consumeErr)

			a := newAuthForTest(&mocks.UserStore{}, tokens, &mocks.PasswordHasher{}, &mocks.TokenManager{}, newFakeNotifier())

			err := a.VerifyEmail(context.Background(), "tok123")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAuth_VerifyEmail_StorageFailure(t *testing.T) {
	tokens := &mocks.VerificationTokenStore{}
	tokens.On("Consume", mock.Anything, "tok123").Return("", errors.New("db down"))

	a := newAuthForTest(&mocks.UserStore{}, tokens, &mocks.PasswordHasher{}, &mocks.TokenManager{}, newFakeNotifier())

	err := a.VerifyEmail(context.Background(), "tok123")
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrTokenInvalid)
	require.NotErrorIs(t, err, model.ErrTokenExpired)
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}

	user := model.User{ID: uuid.New(), Email: "alice@x.com", PasswordHash: "hashed"}
	users.On("GetByEmail", mock.Anything, "alice@x.com").Return(user, nil)
	hasher.On("Verify", "secret1", "hashed").Return(true)
	sessions.On("GenerateSessionToken", user.ID).Return("signed-session", nil)

	a := newAuthForTest(users, &mocks.VerificationTokenStore{}, hasher, sessions, newFakeNotifier())

	token, err := a.Login(ctx, LoginParams{Email: "Alice@X.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "signed-session", token)
}

func TestAuth_Login_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	unknownUsers := &mocks.UserStore{}
	unknownUsers.On("GetByEmail", mock.Anything, "ghost@x.com").Return(model.User{}, model.ErrNotFound)
	a1 := newAuthForTest(unknownUsers, &mocks.VerificationTokenStore{}, &mocks.PasswordHasher{}, &mocks.TokenManager{}, newFakeNotifier())
	_, errUnknown := a1.Login(ctx, LoginParams{Email: "ghost@x.com", Password: "whatever"})

	knownUsers := &mocks.UserStore{}
	knownUsers.On("GetByEmail", mock.Anything, "alice@x.com").Return(model.User{ID: uuid.New(), PasswordHash: "hashed"}, nil)
	wrongHasher := &mocks.PasswordHasher{}
	wrongHasher.On("Verify", "wrong", "hashed").Return(false)
	a2 := newAuthForTest(knownUsers, &mocks.VerificationTokenStore{}, wrongHasher, &mocks.TokenManager{}, newFakeNotifier())
	_, errWrongPassword := a2.Login(ctx, LoginParams{Email: "alice@x.com", Password: "wrong"})

	require.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPassword, model.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPassword)
}

func TestAuth_Login_StorageFailure(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("GetByEmail", mock.Anything, "alice@x.com").Return(model.User{}, errors.New("db down"))

	a := newAuthForTest(users, &mocks.VerificationTokenStore{}, &mocks.PasswordHasher{}, &mocks.TokenManager{}, newFakeNotifier())

	_, err := a.Login(context.Background(), LoginParams{Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Login_SessionIssueFailure(t *testing.T) {
	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}
	sessions := &mocks.TokenManager{}

	user := model.User{ID: uuid.New(), PasswordHash: "hashed"}
	users.On("GetByEmail", mock.Anything, "alice@x.com").Return(user, nil)
	hasher.On("Verify", "secret1", "hashed").Return(true)
	sessions.On("GenerateSessionToken", user.ID).Return("", errors.New("signing failed"))

	a := newAuthForTest(users, &mocks.VerificationTokenStore{}, hasher, sessions, newFakeNotifier())

	_, err := a.Login(context.Background(), LoginParams{Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrInvalidCredentials)
}
